package line

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/mosacup/webboard/shared/domain"
)

//go:embed templates/*.json.tmpl
var templateFS embed.FS

var flexTemplates = template.Must(template.New("flex").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).ParseFS(templateFS, "templates/*.json.tmpl"))

// altText is shown in notifications and chat lists. The platform caps it at 400 characters.
const altTextLimit = 400

type listRow struct {
	Key   string
	Value string
}

func renderFlex(name, altText string, data any) (*linebot.FlexMessage, error) {
	var buf bytes.Buffer
	if err := flexTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	container, err := linebot.UnmarshalFlexMessageJSON(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return linebot.NewFlexMessage(truncate(altText, altTextLimit), container), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func subboardNames(subboards []domain.Subboard) string {
	names := make([]string, len(subboards))
	for i, sb := range subboards {
		names[i] = sb.SubboardName
	}
	return strings.Join(names, ", ")
}

func MessageFlex(msg domain.Message) (*linebot.FlexMessage, error) {
	return renderFlex("message.json.tmpl", msg.Body, struct {
		BoardName, Subboards, Body string
	}{msg.Board.BoardName, subboardNames(msg.Subboards), msg.Body})
}

func FormFlex(form domain.Form) (*linebot.FlexMessage, error) {
	questions := make([]string, len(form.FormQuestions))
	for i, q := range form.FormQuestions {
		questions[i] = fmt.Sprintf("%d. %s (%s / %s)", i+1, q.Title, q.Yes, q.No)
	}
	return renderFlex("form.json.tmpl", form.Title, struct {
		BoardName, Subboards, Title string
		Questions                   []string
	}{form.Board.BoardName, subboardNames(form.Subboards), form.Title, questions})
}

func DirectMessageFlex(dm domain.DirectMessage) (*linebot.FlexMessage, error) {
	return renderFlex("direct_message.json.tmpl", dm.Body, struct {
		From, Body string
	}{dm.SendFrom.Name(), dm.Body})
}

// BoardsFlex lists board ids and names. An empty list renders a single notice row.
func BoardsFlex(boards []domain.Board) (*linebot.FlexMessage, error) {
	rows := make([]listRow, 0, len(boards))
	for _, b := range boards {
		rows = append(rows, listRow{Key: b.BoardID, Value: b.BoardName})
	}
	if len(rows) == 0 {
		rows = append(rows, listRow{Key: "-", Value: "You have not joined any boards"})
	}
	return renderList("My boards", rows)
}

// DirectMessagesFlex lists received direct messages as sender and body.
func DirectMessagesFlex(dms []domain.DirectMessage) (*linebot.FlexMessage, error) {
	rows := make([]listRow, 0, len(dms))
	for _, dm := range dms {
		rows = append(rows, listRow{Key: dm.SendFrom.Name(), Value: dm.Body})
	}
	if len(rows) == 0 {
		rows = append(rows, listRow{Key: "-", Value: "No direct messages"})
	}
	return renderList("Direct messages", rows)
}

func renderList(title string, rows []listRow) (*linebot.FlexMessage, error) {
	return renderFlex("list.json.tmpl", title, struct {
		Title string
		Rows  []listRow
	}{title, rows})
}
