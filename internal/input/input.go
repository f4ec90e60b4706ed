package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical engine action, not a physical key
type Action int

// Action constants using iota
const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionSprint
	ActionPause
	ActionToggleWireframe
	ActionToggleProfiling
	ActionMouseLeft
	ActionMouseRight
	ActionMouseMiddle
	ActionModControl
	ActionModShift
	ActionModAlt
	ActionCount // Sentinel value for array sizing
)

// Manager manages keyboard and mouse input state and maps physical keys/buttons to logical actions
type Manager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Mouse button to action mapping
	mouseButtonToActions map[glfw.MouseButton][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	// Cursor state for camera look controls
	cursorX, cursorY           float64
	prevX, prevY               float64
	hasCursor                  bool
	scrollDeltaX, scrollDeltaY float64
}

// NewManager creates a new Manager with default key bindings
func NewManager() *Manager {
	m := &Manager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	// Set default key bindings
	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeySpace, ActionMoveUp)
	m.BindKey(glfw.KeyLeftControl, ActionMoveDown)
	m.BindKey(glfw.KeyLeftShift, ActionSprint)
	m.BindKey(glfw.KeyEscape, ActionPause)
	m.BindKey(glfw.KeyF, ActionToggleWireframe)
	m.BindKey(glfw.KeyV, ActionToggleProfiling)

	// Set default mouse button bindings
	m.BindMouseButton(glfw.MouseButtonLeft, ActionMouseLeft)
	m.BindMouseButton(glfw.MouseButtonRight, ActionMouseRight)
	m.BindMouseButton(glfw.MouseButtonMiddle, ActionMouseMiddle)

	// Set default modifier key bindings
	m.BindKey(glfw.KeyLeftControl, ActionModControl)
	m.BindKey(glfw.KeyRightControl, ActionModControl)
	m.BindKey(glfw.KeyLeftShift, ActionModShift)
	m.BindKey(glfw.KeyRightShift, ActionModShift)
	m.BindKey(glfw.KeyLeftAlt, ActionModAlt)
	m.BindKey(glfw.KeyRightAlt, ActionModAlt)

	return m
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (m *Manager) BindKey(key glfw.Key, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keyToActions, key)
}

// BindMouseButton binds a mouse button to a logical action
func (m *Manager) BindMouseButton(button glfw.MouseButton, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	m.mouseButtonToActions[button] = append(m.mouseButtonToActions[button], action)
}

// UnbindMouseButton removes all action bindings for a mouse button
func (m *Manager) UnbindMouseButton(button glfw.MouseButton) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.mouseButtonToActions, button)
}

// HandleKeyEvent processes a key event and updates internal state
// This can be called from a custom key callback
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.RLock()
	actions, exists := m.keyToActions[key]
	m.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat

	m.mu.Lock()
	for _, act := range actions {
		if act >= 0 && act < ActionCount {
			// Detect edges immediately when event arrives
			if isPressed && !m.currentState[act] {
				m.justPressed[act] = true
			}
			if !isPressed && m.currentState[act] {
				m.justReleased[act] = true
			}
			m.currentState[act] = isPressed
		}
	}
	m.mu.Unlock()
}

// HandleMouseButtonEvent processes a mouse button event and updates internal state
// This can be called from a custom mouse button callback
func (m *Manager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	m.mu.RLock()
	actions, exists := m.mouseButtonToActions[button]
	m.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press

	m.mu.Lock()
	for _, act := range actions {
		if act >= 0 && act < ActionCount {
			// Detect edges immediately when event arrives
			if isPressed && !m.currentState[act] {
				m.justPressed[act] = true
			}
			if !isPressed && m.currentState[act] {
				m.justReleased[act] = true
			}
			m.currentState[act] = isPressed
		}
	}
	m.mu.Unlock()
}

// HandleCursorEvent records the latest cursor position. Deltas are computed
// against the position from the previous frame in PostUpdate.
func (m *Manager) HandleCursorEvent(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasCursor {
		m.prevX, m.prevY = x, y
		m.hasCursor = true
	}
	m.cursorX, m.cursorY = x, y
}

// HandleScrollEvent accumulates scroll wheel movement for the current frame.
func (m *Manager) HandleScrollEvent(dx, dy float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scrollDeltaX += dx
	m.scrollDeltaY += dy
}

// SetCallbacks wires the GLFW callbacks for this input manager.
// This should be called once during initialization.
func (m *Manager) SetCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		m.HandleCursorEvent(x, y)
	})
	window.SetScrollCallback(func(w *glfw.Window, dx, dy float64) {
		m.HandleScrollEvent(dx, dy)
	})
}

// PostUpdate must be called at the end of each frame to update edge detection
// states and roll the cursor delta forward.
// This should be called after all input checks are done.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Reset edge flags
	for i := range ActionCount {
		m.justPressed[i] = false
		m.justReleased[i] = false
	}

	m.prevX, m.prevY = m.cursorX, m.cursorY
	m.scrollDeltaX, m.scrollDeltaY = 0, 0
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.justReleased[action]
}

// CursorPosition returns the latest cursor position in window coordinates.
func (m *Manager) CursorPosition() (x, y float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cursorX, m.cursorY
}

// CursorDelta returns the cursor movement since the previous frame.
func (m *Manager) CursorDelta() (dx, dy float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cursorX - m.prevX, m.cursorY - m.prevY
}

// ScrollDelta returns the accumulated scroll wheel movement this frame.
func (m *Manager) ScrollDelta() (dx, dy float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scrollDeltaX, m.scrollDeltaY
}
