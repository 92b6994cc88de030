/*
Package editor contains the UI-agnostic core of the piano roll editor.

The editor is controlled: the host owns the state and hands it to the editor
as Props, a State value plus a set of change handlers. The editor never
modifies the state it was given; it reports intents through the handlers,
e.g. OnNoteChange or OnInsertNote, and the host decides what to do with
them. Missing handlers are ignored. Model is a ready made state container
for hosts that do not want to own the state themselves; model.Props()
returns Props wired to it, with undo/redo on top.

PianoRoll composes one editor instance: from the current Props and the
measured screen rectangles it builds the viewport registry (the horizontal
time axis, the vertical pitch axis, the track list axes), computes the
visible grid, notes and keys, and owns the pointer Interaction that turns
presses and drags into note edits. Rendering is left to the host packages
(editor/gioui, editor/tui), which only draw what PianoRoll computed and
forward input events back to it.

Similarly to the Model, the GUI uses Action, Bool, Int and Float wrappers to
manipulate the model, so that e.g. a button can ask if its action is enabled
before drawing itself.
*/
package editor
