package form

import "github.com/goliatone/go-admingen/pkg/display"

// View is the semantic description of a form handed to a template layer.
type View struct {
	Template   string             `json:"template"`
	Action     string             `json:"action,omitempty"`
	Method     string             `json:"method"`
	Attributes display.Attributes `json:"attributes,omitempty"`
	Elements   []ElementView      `json:"elements,omitempty"`
	Buttons    []ButtonView       `json:"buttons,omitempty"`
}

// View describes the form for rendering. Elements that do not implement
// Viewer and invisible elements are left out.
func (f *Form) View() View {
	view := View{
		Template:   f.view,
		Action:     f.action,
		Method:     f.attributes["method"],
		Attributes: f.attributes.Clone(),
	}
	for _, el := range f.elements {
		if !el.IsVisible() {
			continue
		}
		if viewer, ok := el.(Viewer); ok {
			view.Elements = append(view.Elements, viewer.View())
		}
	}
	if f.buttons != nil {
		view.Buttons = f.buttons.Buttons()
	}
	return view
}
