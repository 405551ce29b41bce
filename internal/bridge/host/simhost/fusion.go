package simhost

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Shopify/go-lua"

	"github.com/framefold/resolvebridge/internal/bridge/host"
)

type fusion struct {
	h *Host
}

// CurrentComp returns the composition of the current timeline's current
// clip. One composition per host keeps the simulation simple; the real
// host has one per clip.
func (f *fusion) CurrentComp(context.Context) (host.Comp, error) {
	f.h.mu.Lock()
	defer f.h.mu.Unlock()
	if f.h.current == nil || f.h.current.current == nil {
		return nil, fmt.Errorf("%w: no composition open", host.ErrStale)
	}
	if f.h.comp == nil {
		f.h.comp = &comp{h: f.h, name: "Composition 1"}
	}
	return f.h.comp, nil
}

// ExecuteLua runs source in a fresh interpreter with a resolve table bound
// to the simulated host. Each call gets its own state; scripts cannot leak
// globals into each other.
func (f *fusion) ExecuteLua(_ context.Context, source string) (string, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	f.registerResolveTable(state)

	if err := lua.LoadString(state, source); err != nil {
		return "", fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return "", fmt.Errorf("run lua: %w", err)
	}
	defer state.Pop(1)
	return luaResultString(state, -1), nil
}

// ExecutePython is not available in the simulated host.
func (f *fusion) ExecutePython(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: simulated host has no Python interpreter", host.ErrUnsupported)
}

func (f *fusion) registerResolveTable(state *lua.State) {
	h := f.h
	functions := []lua.RegistryFunction{
		{Name: "project_name", Function: func(state *lua.State) int {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.current == nil {
				state.PushNil()
				return 1
			}
			state.PushString(h.current.name)
			return 1
		}},
		{Name: "page", Function: func(state *lua.State) int {
			h.mu.Lock()
			defer h.mu.Unlock()
			state.PushString(string(h.page))
			return 1
		}},
		{Name: "open_page", Function: func(state *lua.State) int {
			name := lua.CheckString(state, 1)
			if !host.ValidPage(name) {
				lua.Errorf(state, "unknown page %q", name)
				return 0
			}
			h.mu.Lock()
			h.page = host.Page(name)
			h.mu.Unlock()
			return 0
		}},
		{Name: "timeline_count", Function: func(state *lua.State) int {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.current == nil {
				state.PushInteger(0)
				return 1
			}
			state.PushInteger(len(h.current.timelines))
			return 1
		}},
		{Name: "current_timeline", Function: func(state *lua.State) int {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.current == nil || h.current.current == nil {
				state.PushNil()
				return 1
			}
			state.PushString(h.current.current.name)
			return 1
		}},
		{Name: "timecode", Function: func(state *lua.State) int {
			h.mu.Lock()
			defer h.mu.Unlock()
			state.PushString(h.timecode)
			return 1
		}},
		{Name: "setting", Function: func(state *lua.State) int {
			key := lua.CheckString(state, 1)
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.current == nil {
				state.PushNil()
				return 1
			}
			state.PushString(h.current.settings[key])
			return 1
		}},
		{Name: "set_setting", Function: func(state *lua.State) int {
			key := lua.CheckString(state, 1)
			value := lua.CheckString(state, 2)
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.current == nil {
				state.PushBoolean(false)
				return 1
			}
			h.current.settings[key] = value
			state.PushBoolean(true)
			return 1
		}},
	}
	state.NewTable()
	lua.SetFunctions(state, functions, 0)
	state.SetGlobal("resolve")
}

func luaResultString(state *lua.State, index int) string {
	switch state.TypeOf(index) {
	case lua.TypeNil:
		return ""
	case lua.TypeBoolean:
		return strconv.FormatBool(state.ToBoolean(index))
	default:
		value, _ := state.ToString(index)
		return value
	}
}

type comp struct {
	h    *Host
	name string

	nodes []*node
}

func (c *comp) Name(context.Context) (string, error) {
	c.h.mu.Lock()
	defer c.h.mu.Unlock()
	return c.name, nil
}

func (c *comp) AddTool(_ context.Context, nodeType string, x, y int) (host.Node, error) {
	c.h.mu.Lock()
	defer c.h.mu.Unlock()
	if hook := c.h.Fail.AddTool; hook != nil {
		if err := hook(nodeType); err != nil {
			return nil, err
		}
	}
	n := &node{
		h:      c.h,
		name:   fmt.Sprintf("%s%d", nodeType, len(c.nodes)+1),
		kind:   nodeType,
		x:      x,
		y:      y,
		inputs: make(map[string]any),
		wires:  make(map[string]*node),
	}
	c.nodes = append(c.nodes, n)
	return n, nil
}

type node struct {
	h    *Host
	name string
	kind string
	x, y int

	inputs map[string]any
	wires  map[string]*node
}

func (n *node) Name(context.Context) (string, error) {
	n.h.mu.Lock()
	defer n.h.mu.Unlock()
	return n.name, nil
}

func (n *node) SetInput(_ context.Context, key string, value any) error {
	n.h.mu.Lock()
	defer n.h.mu.Unlock()
	n.inputs[key] = value
	return nil
}

func (n *node) ConnectInput(_ context.Context, key string, from host.Node) error {
	source, ok := from.(*node)
	if !ok || source == nil {
		return fmt.Errorf("%w: foreign node handle", host.ErrStale)
	}
	n.h.mu.Lock()
	defer n.h.mu.Unlock()
	n.wires[key] = source
	return nil
}
