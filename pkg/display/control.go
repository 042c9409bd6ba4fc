package display

import (
	"net/http"
	"sort"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
)

// Action identifies a built-in control button slot.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionDestroy Action = "destroy"
	ActionRestore Action = "restore"
)

// Slot positions of the built-in buttons.
const (
	PositionEdit    = 100
	PositionDelete  = 200
	PositionDestroy = 300
	PositionRestore = 400
)

const controlWidth = "90px"

type slot struct {
	name   string
	button *ActionButton
}

// ControlColumn renders the per-row action buttons. Built-in buttons are
// gated by a capability flag, the row's trashed state, and the model
// configuration's permission for that row.
type ControlColumn struct {
	TableColumn

	config modelconfig.Configuration
	slots  []slot

	editable    bool
	deletable   bool
	destroyable bool
	restorable  bool
	initialized bool
}

var _ Column = (*ControlColumn)(nil)

// NewControlColumn creates a control column backed by cfg. Initialize must be
// called once before the first render.
func NewControlColumn(cfg modelconfig.Configuration, options ...ColumnOption) *ControlColumn {
	base := append([]ColumnOption{WithWidth(controlWidth), WithAttribute("class", "text-right")}, options...)
	return &ControlColumn{
		TableColumn: newTableColumn("control", false, base),
		config:      cfg,
		editable:    true,
		deletable:   true,
		destroyable: true,
		restorable:  true,
	}
}

// Initialize creates the four built-in buttons. Calling it again recreates
// them in place, discarding customisations made to those slots.
func (c *ControlColumn) Initialize() error {
	if c.config == nil {
		return ErrNoConfiguration
	}

	edit := c.builtin(ActionEdit, "Edit", PositionEdit).
		SetIcon("fa fa-pencil").
		SetAttribute("class", "btn-primary")
	c.put(string(ActionEdit), edit)

	del := c.builtin(ActionDelete, "Delete", PositionDelete).
		SetMethod(http.MethodDelete).
		SetIcon("fa fa-trash").
		SetAttribute("class", "btn-danger btn-delete")
	c.put(string(ActionDelete), del)

	destroy := c.builtin(ActionDestroy, "Destroy", PositionDestroy).
		SetMethod(http.MethodDelete).
		SetIcon("fa fa-trash").
		SetAttribute("class", "btn-danger btn-destroy")
	c.put(string(ActionDestroy), destroy)

	restore := c.builtin(ActionRestore, "Restore", PositionRestore).
		SetMethod(http.MethodPost).
		SetIcon("fa fa-reply").
		SetAttribute("class", "btn-warning")
	c.put(string(ActionRestore), restore)

	c.initialized = true
	return nil
}

func (c *ControlColumn) builtin(action Action, fallback string, position int) *ActionButton {
	label := c.localizer.T("admin.table."+string(action), fallback)
	return NewActionButton(actionURL{column: c, action: action}, label, position).
		SetName(string(action)).
		SetCondition(controlRule{column: c, action: action}).
		HideText()
}

// put replaces a named slot in place or appends a new one.
func (c *ControlColumn) put(name string, button *ActionButton) {
	for idx := range c.slots {
		if c.slots[idx].name == name {
			c.slots[idx].button = button
			return
		}
	}
	c.slots = append(c.slots, slot{name: name, button: button})
}

// AddButton appends a custom button. Names are not checked for collisions.
func (c *ControlColumn) AddButton(button *ActionButton) *ControlColumn {
	if button == nil {
		return c
	}
	c.slots = append(c.slots, slot{button: button})
	return c
}

// Button returns the built-in button stored under name.
func (c *ControlColumn) Button(name Action) (*ActionButton, bool) {
	for _, s := range c.slots {
		if s.name == string(name) {
			return s.button, true
		}
	}
	return nil, false
}

// Buttons returns every configured button in insertion order.
func (c *ControlColumn) Buttons() []*ActionButton {
	out := make([]*ActionButton, 0, len(c.slots))
	for _, s := range c.slots {
		out = append(out, s.button)
	}
	return out
}

// Configuration returns the model configuration backing the column.
func (c *ControlColumn) Configuration() modelconfig.Configuration { return c.config }

func (c *ControlColumn) SetEditable(editable bool) *ControlColumn {
	c.editable = editable
	return c
}

func (c *ControlColumn) SetDeletable(deletable bool) *ControlColumn {
	c.deletable = deletable
	return c
}

func (c *ControlColumn) SetDestroyable(destroyable bool) *ControlColumn {
	c.destroyable = destroyable
	return c
}

func (c *ControlColumn) SetRestorable(restorable bool) *ControlColumn {
	c.restorable = restorable
	return c
}

// Allows reports whether action is available for row.
func (c *ControlColumn) Allows(action Action, row entity.Entity) bool {
	if c.config == nil || row == nil {
		return false
	}
	trashed := entity.IsTrashed(row)

	switch action {
	case ActionEdit:
		return c.editable && !trashed && c.config.IsEditable(row)
	case ActionDelete:
		return c.deletable && !trashed && c.config.IsDeletable(row)
	case ActionDestroy:
		return c.destroyable && trashed && c.config.IsDestroyable(row)
	case ActionRestore:
		return c.restorable && trashed && c.config.IsRestorable(row)
	default:
		return false
	}
}

// ActiveButtons binds every button to the current row and returns the active
// ones ordered by position. Ties keep insertion order.
func (c *ControlColumn) ActiveButtons() []*ActionButton {
	row := c.Model()
	active := make([]*ActionButton, 0, len(c.slots))
	for _, s := range c.slots {
		s.button.Bind(row)
		if s.button.IsActive() {
			active = append(active, s.button)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Position() < active[j].Position()
	})
	return active
}

// Render emits the column cell with the active buttons for the bound row.
func (c *ControlColumn) Render() (Cell, error) {
	if !c.initialized {
		return Cell{}, ErrNotInitialized
	}
	cell, err := c.cell()
	if err != nil {
		return Cell{}, err
	}

	active := c.ActiveButtons()
	cell.Buttons = make([]ButtonView, 0, len(active))
	for _, button := range active {
		cell.Buttons = append(cell.Buttons, button.View())
	}
	return cell, nil
}

// controlRule gates a built-in button through its owning column.
type controlRule struct {
	column *ControlColumn
	action Action
}

func (r controlRule) Active(row entity.Entity) bool {
	return r.column.Allows(r.action, row)
}

// actionURL asks the column's model configuration for the action URL.
type actionURL struct {
	column *ControlColumn
	action Action
}

func (u actionURL) URL(row entity.Entity) string {
	cfg := u.column.config
	if cfg == nil || row == nil {
		return ""
	}
	key := row.PrimaryKey()
	switch u.action {
	case ActionEdit:
		return cfg.EditURL(key)
	case ActionDelete:
		return cfg.DeleteURL(key)
	case ActionDestroy:
		return cfg.DestroyURL(key)
	case ActionRestore:
		return cfg.RestoreURL(key)
	default:
		return ""
	}
}
