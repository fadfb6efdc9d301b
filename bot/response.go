package bot

// ResponseType tags the reply payload.
type ResponseType string

const (
	TextResponse    ResponseType = "text"
	ButtonsResponse ResponseType = "buttons"
	ListResponse    ResponseType = "list"
)

const (
	maxButtons = 3
	maxRows    = 10
)

type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Response is the reply to send back to the customer.
type Response struct {
	Type        ResponseType `json:"type"`
	Body        string       `json:"body"`
	Buttons     []Button     `json:"buttons,omitempty"`
	ButtonLabel string       `json:"button_label,omitempty"`
	Sections    []Section    `json:"sections,omitempty"`
}

func Text(body string) *Response {
	return &Response{Type: TextResponse, Body: body}
}

func Buttons(body string, buttons ...Button) *Response {
	return &Response{Type: ButtonsResponse, Body: body, Buttons: buttons}
}

func List(body, label string, sections ...Section) *Response {
	return &Response{Type: ListResponse, Body: body, ButtonLabel: label, Sections: sections}
}

// clip enforces the channel limits on buttons and rows.
func (r *Response) clip() {
	if len(r.Buttons) > maxButtons {
		r.Buttons = r.Buttons[:maxButtons]
	}
	for i := range r.Sections {
		if len(r.Sections[i].Rows) > maxRows {
			r.Sections[i].Rows = r.Sections[i].Rows[:maxRows]
		}
	}
	if r.Type == ListResponse && rowCount(r.Sections) == 0 {
		r.Type, r.Sections, r.ButtonLabel = TextResponse, nil, ""
	}
}

func rowCount(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Rows)
	}
	return n
}
