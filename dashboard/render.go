package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"
	"unicode/utf8"

	"github.com/Grupp05-AI/Admin-sida/region"
	"github.com/Grupp05-AI/Admin-sida/threat"
	"github.com/Grupp05-AI/Admin-sida/tips"
	jsoniter "github.com/json-iterator/go"
)

const (
	excerptLimit = 240
	timeLayout   = "2006-01-02 15:04:05"

	noText      = "(utan text)"
	emptyList   = "Inga tips hittades."
	imageFailed = "Bilden kunde inte laddas"
)

var stockholm = mustLocation("Europe/Stockholm")

var labels = map[string]string{
	"event_time":    "Stund",
	"place":         "Ställe",
	"threat_reason": "Styrka",
	"category":      "Slag",
	"summary":       "Sysselsättning",
	"text":          "Symbol",
	"contact":       "Sagesman",
	"threat_level":  "Hotnivå",
	"created_at":    "Rapporterad",
	"latitude":      "Latitud",
	"longitude":     "Longitud",
	"image_url":     "Bild",
}

var templates = template.Must(template.New("dashboard").Parse(`
{{define "card"}}<div class="card" data-tip-id="{{.ID}}">
<h4><span class="pulse {{.Class}} dot"></span>{{.Title}}</h4>
<div class="meta">{{if .When}}<span>{{.When}}</span>{{end}}{{if .Category}}<span>{{.Category}}</span>{{end}}{{if .Where}}<span>📍 {{.Where}}</span>{{end}}<span class="region">{{.Region}}</span></div>
<div>{{.Excerpt}}</div>
</div>{{end}}

{{define "detail"}}<div class="detail" data-tip-id="{{.ID}}">
<button class="btn close-detail" data-action="close">← Stäng detaljer</button>
<h3><span class="pulse {{.Class}} dot-lg"></span>{{.Title}}</h3>
<div class="region-box"><strong>Region:</strong> <span class="region">{{.Region}}</span></div>
<div class="fields">{{range .Fields}}{{if .Image}}
<div class="field image"><strong>{{.Label}}:</strong><br/><img class="tip-image" src="{{.Image}}" alt="{{.Label}}"/><div class="image-fallback" hidden>` + imageFailed + `: {{.Value}}</div></div>{{else}}
<div class="field"><strong>{{.Label}}:</strong> <span>{{.Value}}</span></div>{{end}}{{end}}
</div>
</div>{{end}}

{{define "popup"}}<div class="popup"><strong>{{.Title}}</strong><br/>{{.Body}}<br/><button class="focus-tip" data-focus="{{.ID}}">→ Gå till tips</button></div>{{end}}

{{define "error"}}<div class="error">Fel: {{.}}</div>{{end}}

{{define "empty"}}<div class="empty">` + emptyList + `</div>{{end}}
`))

type card struct {
	ID       int64
	Class    string
	Title    string
	When     string
	Category string
	Where    string
	Region   string
	Excerpt  string
}

type detail struct {
	ID     int64
	Class  string
	Title  string
	Region string
	Fields []Field
}

// Field is one labelled row of the detail panel.
type Field struct {
	Label string
	Value string
	Image string
}

type popup struct {
	ID    int64
	Title string
	Body  string
}

// RenderList renders the left-hand panel for a derived view.
func RenderList(v View) (string, error) {
	if v.Expanded != nil {
		return execute("detail", newDetail(*v.Expanded))
	}
	if len(v.Items) == 0 {
		return execute("empty", nil)
	}

	var b bytes.Buffer
	for _, t := range v.Items {
		if err := templates.ExecuteTemplate(&b, "card", newCard(t)); err != nil {
			return "", fmt.Errorf("could not render tip %d: %w", t.ID, err)
		}
	}
	return b.String(), nil
}

// RenderError renders an inline fetch error.
func RenderError(message string) string {
	out, err := execute("error", message)
	if err != nil {
		return ""
	}
	return out
}

// PageInfo is the pagination caption.
func PageInfo(page, total int) string {
	return fmt.Sprintf("Sida %d / %d", page, total)
}

func renderPopup(t tips.Tip) string {
	body := tips.Str(t.Summary)
	if body == "" {
		body = tips.Str(t.ThreatReason)
	}
	out, err := execute("popup", popup{ID: t.ID, Title: title(t), Body: body})
	if err != nil {
		return ""
	}
	return out
}

func execute(name string, data interface{}) (string, error) {
	var b bytes.Buffer
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("could not render %s: %w", name, err)
	}
	return b.String(), nil
}

func newCard(t tips.Tip) card {
	c := card{
		ID:       t.ID,
		Class:    threat.NormalizePtr(t.ThreatLevel).CSSClass(),
		Title:    title(t),
		Category: tips.Str(t.Category),
		Region:   region.ClassifyPtr(t.Latitude, t.Longitude).Name(),
	}

	switch {
	case t.EventTime != nil:
		c.When = FormatTime(*t.EventTime)
	case !t.CreatedAt.IsZero():
		c.When = FormatTime(t.CreatedAt)
	}

	if t.HasCoordinates() {
		c.Where = fmt.Sprintf("%.4f, %.4f", *t.Latitude, *t.Longitude)
	} else {
		c.Where = tips.Str(t.Place)
	}

	excerpt := tips.Str(t.Summary)
	if excerpt == "" {
		excerpt = tips.Str(t.ThreatReason)
	}
	c.Excerpt = Truncate(excerpt, excerptLimit)
	return c
}

func newDetail(t tips.Tip) detail {
	return detail{
		ID:     t.ID,
		Class:  threat.NormalizePtr(t.ThreatLevel).CSSClass(),
		Title:  title(t),
		Region: region.ClassifyPtr(t.Latitude, t.Longitude).Name(),
		Fields: DetailFields(t),
	}
}

func title(t tips.Tip) string {
	if s := tips.Str(t.Text); s != "" {
		return s
	}
	return noText
}

// DetailFields lists the populated fields of a tip in display order: the
// priority fields, the image and then every extra column sorted by key.
func DetailFields(t tips.Tip) []Field {
	var out []Field
	add := func(key, value string) {
		if value != "" {
			out = append(out, Field{Label: FormatLabel(key), Value: value})
		}
	}

	if t.EventTime != nil {
		add("event_time", FormatTime(*t.EventTime))
	}
	add("place", tips.Str(t.Place))
	add("threat_reason", tips.Str(t.ThreatReason))
	add("category", tips.Str(t.Category))
	add("summary", tips.Str(t.Summary))
	add("text", tips.Str(t.Text))
	add("contact", tips.Str(t.Contact))
	add("threat_level", tips.Str(t.ThreatLevel))
	if !t.CreatedAt.IsZero() {
		add("created_at", FormatTime(t.CreatedAt))
	}
	if t.Latitude != nil {
		add("latitude", formatFloat(*t.Latitude))
	}
	if t.Longitude != nil {
		add("longitude", formatFloat(*t.Longitude))
	}

	if img := strings.TrimSpace(tips.Str(t.ImageURL)); img != "" {
		out = append(out, Field{Label: FormatLabel("image_url"), Value: img, Image: ImageSource(img)})
	}

	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if f, ok := extraField(k, t.Extra[k]); ok {
			out = append(out, f)
		}
	}
	return out
}

func extraField(key string, value interface{}) (Field, bool) {
	if key == "id" || value == nil {
		return Field{}, false
	}
	label := FormatLabel(key)

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return Field{}, false
		}
		if imageKey(key) && looksLikeImage(v) {
			return Field{Label: label, Value: v, Image: ImageSource(v)}, true
		}
		if timeKey(key) {
			if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return Field{Label: label, Value: FormatTime(ts)}, true
			}
		}
		return Field{Label: label, Value: v}, true
	case float64:
		return Field{Label: label, Value: formatFloat(v)}, true
	case bool:
		return Field{Label: label, Value: strconv.FormatBool(v)}, true
	default:
		s, err := jsoniter.MarshalToString(v)
		if err != nil {
			return Field{}, false
		}
		return Field{Label: label, Value: s}, true
	}
}

func imageKey(key string) bool {
	for _, part := range []string{"image", "url", "photo", "attachment"} {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func looksLikeImage(v string) bool {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "http") {
		return true
	}
	for _, ext := range []string{".jpg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(v, ext) {
			return true
		}
	}
	return false
}

func timeKey(key string) bool {
	return strings.Contains(key, "time") || strings.Contains(key, "date")
}

// ImageSource rewrites imgur album and page links to a direct image link.
func ImageSource(raw string) string {
	u := strings.TrimSpace(raw)
	switch {
	case strings.Contains(u, "imgur.com/a/"):
		return "https://i.imgur.com/" + strings.SplitN(u, "/a/", 2)[1] + ".jpg"
	case strings.Contains(u, "imgur.com/") && !strings.Contains(u, "i.imgur.com"):
		return "https://i.imgur.com/" + strings.SplitN(u, "imgur.com/", 2)[1] + ".jpg"
	}
	return u
}

// FormatLabel returns the Swedish label of a known column, or a title-cased
// rendition of the key.
func FormatLabel(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}

	var spaced strings.Builder
	var prev rune
	for i, r := range strings.ReplaceAll(key, "_", " ") {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			spaced.WriteRune(' ')
		}
		spaced.WriteRune(r)
		prev = r
	}

	words := strings.Split(spaced.String(), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// FormatTime renders a timestamp in Swedish local time.
func FormatTime(t time.Time) string {
	return t.In(stockholm).Format(timeLayout)
}

// Truncate cuts s to limit runes and appends an ellipsis when it was longer.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
