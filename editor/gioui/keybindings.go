package gioui

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gioui.org/io/key"
	"gopkg.in/yaml.v3"

	"github.com/pianoroll-go/pianoroll/config"
)

type (
	KeyAction string

	KeyBinding struct {
		Key                                        string
		Shortcut, Ctrl, Command, Shift, Alt, Super bool
		Action                                     string
	}

	// KeyBindings maps key presses to actions, and actions to a hint of the
	// last key bound to them.
	KeyBindings struct {
		actions map[key.Event]KeyAction
		hints   map[KeyAction]string
	}
)

//go:embed keybindings.yml
var defaultKeyBindings []byte

// UserKeyBindingsFile is the name of the file in the user config dir whose
// bindings are appended to the defaults. An empty Action unbinds a key.
const UserKeyBindingsFile = "keybindings.yml"

// LoadKeyBindings returns the default key bindings together with the ones
// in the user config dir, if any.
func LoadKeyBindings() (*KeyBindings, error) {
	var user []byte
	if path, err := config.UserFile(UserKeyBindingsFile); err == nil {
		user, _ = os.ReadFile(path)
	}
	return MakeKeyBindings(bytes.NewReader(defaultKeyBindings), bytes.NewReader(user))
}

// MakeKeyBindings decodes lists of key bindings. Later bindings of the same
// key win.
func MakeKeyBindings(sources ...io.Reader) (*KeyBindings, error) {
	ret := &KeyBindings{actions: map[key.Event]KeyAction{}, hints: map[KeyAction]string{}}
	for _, r := range sources {
		var bindings []KeyBinding
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&bindings); err != nil && err != io.EOF {
			return ret, fmt.Errorf("failed to unmarshal keybindings: %w", err)
		}
		for _, kb := range bindings {
			ret.bind(kb)
		}
	}
	return ret, nil
}

func (k *KeyBindings) bind(kb KeyBinding) {
	var mods key.Modifiers
	if kb.Shortcut {
		mods |= key.ModShortcut
	}
	if kb.Ctrl {
		mods |= key.ModCtrl
	}
	if kb.Command {
		mods |= key.ModCommand
	}
	if kb.Shift {
		mods |= key.ModShift
	}
	if kb.Alt {
		mods |= key.ModAlt
	}
	if kb.Super {
		mods |= key.ModSuper
	}
	keyEvent := key.Event{Name: key.Name(kb.Key), Modifiers: mods, State: key.Press}
	if action, ok := k.actions[keyEvent]; ok {
		delete(k.hints, action)
	}
	if kb.Action == "" {
		delete(k.actions, keyEvent)
		return
	}
	k.actions[keyEvent] = KeyAction(kb.Action)
	text := kb.Key
	if modString := strings.ReplaceAll(mods.String(), "-", "+"); modString != "" {
		text = modString + "+" + text
	}
	k.hints[KeyAction(kb.Action)] = text
}

// Action returns the action bound to a key press.
func (k *KeyBindings) Action(e key.Event) (KeyAction, bool) {
	if e.State != key.Press {
		return "", false
	}
	a, ok := k.actions[key.Event{Name: e.Name, Modifiers: e.Modifiers, State: key.Press}]
	return a, ok
}

// Actions iterates the bound actions.
func (k *KeyBindings) Actions(yield func(KeyAction) bool) {
	for _, a := range k.actions {
		if !yield(a) {
			return
		}
	}
}

// Hint appends the key of an action to a tooltip, e.g. "Undo (Ctrl+Z)".
func (k *KeyBindings) Hint(hint, action string) string {
	if h := k.hints[KeyAction(action)]; h != "" {
		return fmt.Sprintf("%s (%s)", hint, h)
	}
	return hint
}
