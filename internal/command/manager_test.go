package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddRemoveTrackUndoRedo(t *testing.T) {
	project := NewProject()
	manager := NewManager(100)

	track := &Track{Name: "Test Track"}
	manager.Apply(NewAddTrackCommand(project, track, nil))
	require.Len(t, project.Tracks, 1)

	require.True(t, manager.Undo())
	require.Empty(t, project.Tracks)

	require.True(t, manager.Redo())
	require.Len(t, project.Tracks, 1)
	require.Equal(t, "Test Track", project.Tracks[0].Name)
}

func TestSetTempoUndo(t *testing.T) {
	project := NewProject()
	manager := NewManager(100)

	require.Equal(t, 120.0, project.Tempo)
	manager.Apply(NewSetTempoCommand(project, 140.0))
	require.Equal(t, 140.0, project.Tempo)

	manager.Undo()
	require.Equal(t, 120.0, project.Tempo)
}

func TestUndoRedoEmptyStacksReportFalse(t *testing.T) {
	manager := NewManager(10)
	require.False(t, manager.Undo())
	require.False(t, manager.Redo())
}

func TestApplyingNewCommandClearsRedoStack(t *testing.T) {
	project := NewProject()
	manager := NewManager(10)

	manager.Apply(NewSetTempoCommand(project, 130))
	manager.Undo()
	require.Equal(t, 1, manager.RedoDepth())

	manager.Apply(NewSetTempoCommand(project, 150))
	require.Zero(t, manager.RedoDepth())
}

func TestAdjacentVolumeCommandsMergeIntoOneUndoStep(t *testing.T) {
	project := NewProject()
	project.Tracks = []*Track{{Name: "A"}}
	manager := NewManager(10)

	manager.Apply(NewSetTrackVolumeCommand(project, 0, -6))
	manager.Apply(NewSetTrackVolumeCommand(project, 0, -3))
	manager.Apply(NewSetTrackVolumeCommand(project, 0, 0))

	require.Equal(t, 1, manager.UndoDepth(), "a drag of volume changes collapses to one undo entry")
	require.Equal(t, 0.0, project.Tracks[0].VolumeDB)

	manager.Undo()
	require.Equal(t, 0.0, project.Tracks[0].VolumeDB, "undoing the merged entry restores the pre-drag value")
}

func TestVolumeCommandsOnDifferentTracksDoNotMerge(t *testing.T) {
	project := NewProject()
	project.Tracks = []*Track{{Name: "A"}, {Name: "B"}}
	manager := NewManager(10)

	manager.Apply(NewSetTrackVolumeCommand(project, 0, -6))
	manager.Apply(NewSetTrackVolumeCommand(project, 1, -3))

	require.Equal(t, 2, manager.UndoDepth())
}

func TestToggleMuteIsSelfInverse(t *testing.T) {
	project := NewProject()
	project.Tracks = []*Track{{Name: "A"}}
	manager := NewManager(10)

	manager.Apply(NewToggleTrackMuteCommand(project, 0))
	require.True(t, project.Tracks[0].Mute)

	manager.Undo()
	require.False(t, project.Tracks[0].Mute)
}

func TestMoveClipMergeKeepsOriginalOldPosition(t *testing.T) {
	project := NewProject()
	project.Tracks = []*Track{{Name: "A", Regions: []Region{{ID: "clip1", Position: 0, Length: 100}}}}
	manager := NewManager(10)

	manager.Apply(NewMoveClipCommand(project, 0, 0, 50))
	manager.Apply(NewMoveClipCommand(project, 0, 0, 80))

	require.Equal(t, 1, manager.UndoDepth())
	require.EqualValues(t, 80, project.Tracks[0].Regions[0].Position)

	manager.Undo()
	require.EqualValues(t, 0, project.Tracks[0].Regions[0].Position, "merged move undoes all the way back to the pre-drag position")
}

func TestSplitClipProducesTwoRegionsAndUndoRestoresOne(t *testing.T) {
	project := NewProject()
	project.Tracks = []*Track{{Name: "A", Regions: []Region{{ID: "clip1", Position: 0, Length: 100}}}}
	manager := NewManager(10)

	manager.Apply(NewSplitClipCommand(project, 0, 0, 40))
	require.Len(t, project.Tracks[0].Regions, 2)
	require.EqualValues(t, 40, project.Tracks[0].Regions[0].Length)
	require.EqualValues(t, 60, project.Tracks[0].Regions[1].Length)

	manager.Undo()
	require.Len(t, project.Tracks[0].Regions, 1)
	require.EqualValues(t, 100, project.Tracks[0].Regions[0].Length)
}

func TestAutomationPointInsertedInSortedOrder(t *testing.T) {
	project := NewProject()
	project.Tracks = []*Track{{Name: "A"}}
	manager := NewManager(10)

	manager.Apply(NewAddAutomationPointCommand(project, 0, "volume", AutomationPoint{Position: 100, Value: 0.5}))
	manager.Apply(NewAddAutomationPointCommand(project, 0, "volume", AutomationPoint{Position: 50, Value: 0.2}))

	lane := project.Tracks[0].Automation["volume"]
	require.Len(t, lane.Points, 2)
	require.EqualValues(t, 50, lane.Points[0].Position)
	require.EqualValues(t, 100, lane.Points[1].Position)
}

func TestUndoStackRespectsMaxDepth(t *testing.T) {
	project := NewProject()
	manager := NewManager(3)

	for i := 0; i < 10; i++ {
		manager.Apply(NewSetLoopRegionCommand(project, true, int64(i), int64(i+1)))
	}

	require.Equal(t, 3, manager.UndoDepth())
}

func TestReorderTrackUndo(t *testing.T) {
	project := NewProject()
	project.Tracks = []*Track{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	manager := NewManager(10)

	manager.Apply(NewReorderTrackCommand(project, 0, 2))
	require.Equal(t, []string{"B", "C", "A"}, trackNames(project))

	manager.Undo()
	require.Equal(t, []string{"A", "B", "C"}, trackNames(project))
}

func trackNames(p *Project) []string {
	names := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		names[i] = t.Name
	}
	return names
}
