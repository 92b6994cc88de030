package gioui

import (
	"fmt"
	"image"
	"path/filepath"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pianoroll-go/pianoroll/editor"
)

type (
	// ActionButton is an icon button running an editor action.
	ActionButton struct {
		Clickable widget.Clickable
		Icon      []byte
		Hint      string
		Action    func() editor.Action
	}

	// ToggleButton is an icon button flipping a boolean, with an icon for
	// each state.
	ToggleButton struct {
		Clickable       widget.Clickable
		OnIcon, OffIcon []byte
		Hint            string
		Bool            func() editor.Bool
	}

	Toolbar struct {
		New, Open, Save                ActionButton
		Undo, Redo                     ActionButton
		CoarserGrid, FinerGrid         ActionButton
		AddTrack, DeleteTrack, Clear   ActionButton
		Snap, Mode, Follow, ShowTracks ToggleButton
	}
)

var titleCaser = cases.Title(language.English)

func (b *ActionButton) Layout(gtx C, th *Theme) D {
	a := b.Action()
	for b.Clickable.Clicked(gtx) {
		a.Do()
	}
	return iconButton(th, &b.Clickable, b.Icon, b.Hint, a.Enabled()).Layout(gtx)
}

func (b *ToggleButton) Layout(gtx C, th *Theme) D {
	v := b.Bool()
	for b.Clickable.Clicked(gtx) {
		v.Toggle()
	}
	icon := b.OffIcon
	if v.Value() {
		icon = b.OnIcon
	}
	return iconButton(th, &b.Clickable, icon, b.Hint, v.Enabled()).Layout(gtx)
}

func iconButton(th *Theme, w *widget.Clickable, icon []byte, hint string, enabled bool) material.IconButtonStyle {
	ret := material.IconButton(th.Material, w, widgetForIcon(icon), hint)
	ret.Background = th.Toolbar
	ret.Inset = layout.UniformInset(unit.Dp(6))
	ret.Size = unit.Dp(20)
	if enabled {
		ret.Color = th.Primary
	} else {
		ret.Color = th.Disabled
	}
	return ret
}

func NewToolbar(e *Editor) *Toolbar {
	m := e.Model
	hint := e.Keys.Hint
	return &Toolbar{
		New:         ActionButton{Icon: icons.EditorInsertDriveFile, Hint: hint("New song", "NewSong"), Action: e.NewSong},
		Open:        ActionButton{Icon: icons.FileFolderOpen, Hint: hint("Open song", "OpenSong"), Action: e.OpenSong},
		Save:        ActionButton{Icon: icons.ContentSave, Hint: hint("Save song", "SaveSong"), Action: e.SaveSong},
		Undo:        ActionButton{Icon: icons.ContentUndo, Hint: hint("Undo", "Undo"), Action: m.History().Undo},
		Redo:        ActionButton{Icon: icons.ContentRedo, Hint: hint("Redo", "Redo"), Action: m.History().Redo},
		CoarserGrid: ActionButton{Icon: icons.ImageExposureNeg1, Hint: hint("Coarser grid", "CoarserGrid"), Action: m.CoarserGrid},
		FinerGrid:   ActionButton{Icon: icons.ImageExposurePlus1, Hint: hint("Finer grid", "FinerGrid"), Action: m.FinerGrid},
		AddTrack:    ActionButton{Icon: icons.ContentAdd, Hint: hint("Add track", "AddTrack"), Action: m.AddTrack},
		DeleteTrack: ActionButton{Icon: icons.ActionDelete, Hint: hint("Delete track", "DeleteTrack"), Action: m.DeleteTrack},
		Clear:       ActionButton{Icon: icons.ContentClear, Hint: hint("Clear track", "ClearTrack"), Action: m.ClearTrack},
		Snap: ToggleButton{
			OnIcon: icons.ToggleCheckBox, OffIcon: icons.ToggleCheckBoxOutlineBlank,
			Hint: hint("Snap to grid", "SnapToggle"), Bool: func() editor.Bool { return m.SnapToGrid().Bool() },
		},
		Mode: ToggleButton{
			OnIcon: icons.NavigationMenu, OffIcon: icons.ImageAudiotrack,
			Hint: hint("Tracks mode", "ToggleMode"), Bool: func() editor.Bool { return m.TracksMode().Bool() },
		},
		Follow: ToggleButton{
			OnIcon: icons.NotificationSync, OffIcon: icons.NotificationSyncDisabled,
			Hint: hint("Follow play head", "FollowToggle"), Bool: func() editor.Bool { return m.FollowPlayHead().Bool() },
		},
		ShowTracks: ToggleButton{
			OnIcon: icons.SocialGroup, OffIcon: icons.SocialPerson,
			Hint: hint("Show all tracks", "ShowAllTracksToggle"), Bool: func() editor.Bool { return m.ShowAllTracks().Bool() },
		},
	}
}

func (t *Toolbar) Layout(gtx C, e *Editor) D {
	th := e.Theme
	gtx.Constraints.Min.Y = gtx.Dp(th.ToolbarHeight)
	fill(gtx, th.Toolbar, image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Dp(th.ToolbarHeight)))
	state := e.Model.State()
	button := func(b interface{ Layout(C, *Theme) D }) layout.FlexChild {
		return layout.Rigid(func(gtx C) D { return b.Layout(gtx, th) })
	}
	label := func(s string) layout.FlexChild {
		return layout.Rigid(func(gtx C) D {
			l := material.Label(th.Material, th.TextSize, s)
			l.Color = th.Text
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, l.Layout)
		})
	}
	track := "No track"
	if tr := state.Track(state.SelectedTrackIndex); tr != nil {
		track = tr.Name
	}
	file := "Untitled"
	if p := e.Model.FilePath(); p != "" {
		file = filepath.Base(p)
	}
	if e.Model.ChangedSinceSave() {
		file += " *"
	}
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		button(&t.New), button(&t.Open), button(&t.Save),
		button(&t.Undo), button(&t.Redo),
		button(&t.Mode), button(&t.ShowTracks), button(&t.Snap),
		button(&t.CoarserGrid), label(fmt.Sprintf("Grid %s", state.GridDivision)), button(&t.FinerGrid),
		button(&t.AddTrack), button(&t.DeleteTrack), button(&t.Clear),
		button(&t.Follow),
		label(titleCaser.String(state.Mode.String())),
		label(titleCaser.String(track)),
		layout.Flexed(1, func(gtx C) D { return D{Size: gtx.Constraints.Min} }),
		label(file),
	)
}
