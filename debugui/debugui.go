// Package debugui draws Dear ImGui diagnostics for an ecs.Storage. Windows are
// entities carrying an ImguiItem; ImguiSystem renders them after the tick.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tankfield/ecs"
)

// ImguiItem is a component holding one window's render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState is a singleton reporting whether ImGui consumed this frame's
// mouse or keyboard input. Input handlers should skip the simulation when set.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// RegisterComponents registers the component types this package spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// ImguiSystem refreshes ImguiInputState and defers every ImguiItem render to the
// end of the tick.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}
