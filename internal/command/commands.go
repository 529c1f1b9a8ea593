package command

// ═══════════════════════════════════════════════════════════════════════
// TRACK COMMANDS
// ═══════════════════════════════════════════════════════════════════════

// AddTrackCommand inserts track at index (appending if index is nil).
type AddTrackCommand struct {
	project       *Project
	track         *Track
	index         *int
	insertedIndex int
}

// NewAddTrackCommand builds a command that inserts track at index, or
// appends it if index is nil.
func NewAddTrackCommand(project *Project, track *Track, index *int) *AddTrackCommand {
	return &AddTrackCommand{project: project, track: track, index: index}
}

func (c *AddTrackCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		idx := len(p.Tracks)
		if c.index != nil {
			idx = *c.index
			if idx > len(p.Tracks) {
				idx = len(p.Tracks)
			}
		}
		p.Tracks = append(p.Tracks, nil)
		copy(p.Tracks[idx+1:], p.Tracks[idx:])
		p.Tracks[idx] = c.track
		c.insertedIndex = idx
	})
}

func (c *AddTrackCommand) Undo() {
	c.project.WithWrite(func(p *Project) {
		if c.insertedIndex < len(p.Tracks) {
			p.Tracks = append(p.Tracks[:c.insertedIndex], p.Tracks[c.insertedIndex+1:]...)
		}
	})
}

func (c *AddTrackCommand) Name() string { return "Add Track" }

// RemoveTrackCommand removes the track at index, remembering it for undo.
type RemoveTrackCommand struct {
	project      *Project
	index        int
	removedTrack *Track
}

func NewRemoveTrackCommand(project *Project, index int) *RemoveTrackCommand {
	return &RemoveTrackCommand{project: project, index: index}
}

func (c *RemoveTrackCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.index < len(p.Tracks) {
			c.removedTrack = p.Tracks[c.index]
			p.Tracks = append(p.Tracks[:c.index], p.Tracks[c.index+1:]...)
		}
	})
}

func (c *RemoveTrackCommand) Undo() {
	if c.removedTrack == nil {
		return
	}
	c.project.WithWrite(func(p *Project) {
		idx := c.index
		if idx > len(p.Tracks) {
			idx = len(p.Tracks)
		}
		p.Tracks = append(p.Tracks, nil)
		copy(p.Tracks[idx+1:], p.Tracks[idx:])
		p.Tracks[idx] = c.removedTrack
	})
	c.removedTrack = nil
}

func (c *RemoveTrackCommand) Name() string { return "Remove Track" }

// RenameTrackCommand renames the track at index.
type RenameTrackCommand struct {
	project  *Project
	index    int
	oldName  string
	newName  string
}

func NewRenameTrackCommand(project *Project, index int, newName string) *RenameTrackCommand {
	c := &RenameTrackCommand{project: project, index: index, newName: newName}
	project.WithRead(func(p *Project) {
		if index < len(p.Tracks) {
			c.oldName = p.Tracks[index].Name
		}
	})
	return c
}

func (c *RenameTrackCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.index < len(p.Tracks) {
			p.Tracks[c.index].Name = c.newName
		}
	})
}

func (c *RenameTrackCommand) Undo() {
	c.project.WithWrite(func(p *Project) {
		if c.index < len(p.Tracks) {
			p.Tracks[c.index].Name = c.oldName
		}
	})
}

func (c *RenameTrackCommand) Name() string { return "Rename Track" }

func (c *RenameTrackCommand) CanMerge(other Command) bool {
	_, ok := other.(*RenameTrackCommand)
	return ok
}

func (c *RenameTrackCommand) Merge(other Command) {
	o := other.(*RenameTrackCommand)
	c.newName = o.newName
}

// ReorderTrackCommand moves a track from one index to another.
type ReorderTrackCommand struct {
	project          *Project
	fromIndex, toIndex int
}

func NewReorderTrackCommand(project *Project, from, to int) *ReorderTrackCommand {
	return &ReorderTrackCommand{project: project, fromIndex: from, toIndex: to}
}

func (c *ReorderTrackCommand) Execute() {
	c.project.WithWrite(func(p *Project) { moveTrack(p, c.fromIndex, c.toIndex) })
}

func (c *ReorderTrackCommand) Undo() {
	c.project.WithWrite(func(p *Project) { moveTrack(p, c.toIndex, c.fromIndex) })
}

func (c *ReorderTrackCommand) Name() string { return "Reorder Track" }

func moveTrack(p *Project, from, to int) {
	if from >= len(p.Tracks) || to >= len(p.Tracks) {
		return
	}
	track := p.Tracks[from]
	p.Tracks = append(p.Tracks[:from], p.Tracks[from+1:]...)
	p.Tracks = append(p.Tracks, nil)
	copy(p.Tracks[to+1:], p.Tracks[to:])
	p.Tracks[to] = track
}

// ═══════════════════════════════════════════════════════════════════════
// CLIP/REGION COMMANDS
// ═══════════════════════════════════════════════════════════════════════

// AddClipCommand appends a region to a track.
type AddClipCommand struct {
	project       *Project
	trackIndex    int
	clip          Region
	insertedIndex int
}

func NewAddClipCommand(project *Project, trackIndex int, clip Region) *AddClipCommand {
	return &AddClipCommand{project: project, trackIndex: trackIndex, clip: clip}
}

func (c *AddClipCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		track.Regions = append(track.Regions, c.clip)
		c.insertedIndex = len(track.Regions) - 1
	})
}

func (c *AddClipCommand) Undo() {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		if c.insertedIndex < len(track.Regions) {
			track.Regions = append(track.Regions[:c.insertedIndex], track.Regions[c.insertedIndex+1:]...)
		}
	})
}

func (c *AddClipCommand) Name() string { return "Add Clip" }

// RemoveClipCommand removes a region from a track.
type RemoveClipCommand struct {
	project             *Project
	trackIndex          int
	clipIndex           int
	removedClip         *Region
}

func NewRemoveClipCommand(project *Project, trackIndex, clipIndex int) *RemoveClipCommand {
	return &RemoveClipCommand{project: project, trackIndex: trackIndex, clipIndex: clipIndex}
}

func (c *RemoveClipCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		if c.clipIndex >= len(track.Regions) {
			return
		}
		removed := track.Regions[c.clipIndex]
		c.removedClip = &removed
		track.Regions = append(track.Regions[:c.clipIndex], track.Regions[c.clipIndex+1:]...)
	})
}

func (c *RemoveClipCommand) Undo() {
	if c.removedClip == nil {
		return
	}
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		idx := c.clipIndex
		if idx > len(track.Regions) {
			idx = len(track.Regions)
		}
		track.Regions = append(track.Regions, Region{})
		copy(track.Regions[idx+1:], track.Regions[idx:])
		track.Regions[idx] = *c.removedClip
	})
	c.removedClip = nil
}

func (c *RemoveClipCommand) Name() string { return "Remove Clip" }

// MoveClipCommand repositions a clip within its track.
type MoveClipCommand struct {
	project                  *Project
	trackIndex, clipIndex    int
	oldPosition, newPosition int64
}

func NewMoveClipCommand(project *Project, trackIndex, clipIndex int, newPosition int64) *MoveClipCommand {
	c := &MoveClipCommand{project: project, trackIndex: trackIndex, clipIndex: clipIndex, newPosition: newPosition}
	project.WithRead(func(p *Project) {
		if trackIndex < len(p.Tracks) && clipIndex < len(p.Tracks[trackIndex].Regions) {
			c.oldPosition = p.Tracks[trackIndex].Regions[clipIndex].Position
		}
	})
	return c
}

func (c *MoveClipCommand) setPosition(pos int64) {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		if c.clipIndex >= len(track.Regions) {
			return
		}
		track.Regions[c.clipIndex].Position = pos
	})
}

func (c *MoveClipCommand) Execute() { c.setPosition(c.newPosition) }
func (c *MoveClipCommand) Undo()    { c.setPosition(c.oldPosition) }
func (c *MoveClipCommand) Name() string { return "Move Clip" }

func (c *MoveClipCommand) CanMerge(other Command) bool {
	o, ok := other.(*MoveClipCommand)
	return ok && o.trackIndex == c.trackIndex && o.clipIndex == c.clipIndex
}

// Merge keeps this command's original old position and absorbs other's
// target position, collapsing a drag gesture into one undo step — a type
// assertion the original's Box<dyn Command> could not perform without
// downcasting support, left there as a documented no-op.
func (c *MoveClipCommand) Merge(other Command) {
	o := other.(*MoveClipCommand)
	c.newPosition = o.newPosition
}

// ResizeClipCommand changes a clip's length.
type ResizeClipCommand struct {
	project               *Project
	trackIndex, clipIndex int
	oldLength, newLength  int64
}

func NewResizeClipCommand(project *Project, trackIndex, clipIndex int, newLength int64) *ResizeClipCommand {
	c := &ResizeClipCommand{project: project, trackIndex: trackIndex, clipIndex: clipIndex, newLength: newLength}
	project.WithRead(func(p *Project) {
		if trackIndex < len(p.Tracks) && clipIndex < len(p.Tracks[trackIndex].Regions) {
			c.oldLength = p.Tracks[trackIndex].Regions[clipIndex].Length
		}
	})
	return c
}

func (c *ResizeClipCommand) setLength(length int64) {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		if c.clipIndex >= len(track.Regions) {
			return
		}
		track.Regions[c.clipIndex].Length = length
	})
}

func (c *ResizeClipCommand) Execute() { c.setLength(c.newLength) }
func (c *ResizeClipCommand) Undo()    { c.setLength(c.oldLength) }
func (c *ResizeClipCommand) Name() string { return "Resize Clip" }

func (c *ResizeClipCommand) CanMerge(other Command) bool {
	o, ok := other.(*ResizeClipCommand)
	return ok && o.trackIndex == c.trackIndex && o.clipIndex == c.clipIndex
}

func (c *ResizeClipCommand) Merge(other Command) {
	o := other.(*ResizeClipCommand)
	c.newLength = o.newLength
}

// SplitClipCommand splits a clip into two at splitPosition (absolute
// timeline position), inserting the second half immediately after.
type SplitClipCommand struct {
	project               *Project
	trackIndex, clipIndex int
	splitPosition         int64
	originalClip          *Region
}

func NewSplitClipCommand(project *Project, trackIndex, clipIndex int, splitPosition int64) *SplitClipCommand {
	return &SplitClipCommand{project: project, trackIndex: trackIndex, clipIndex: clipIndex, splitPosition: splitPosition}
}

func (c *SplitClipCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		if c.clipIndex >= len(track.Regions) {
			return
		}
		clip := track.Regions[c.clipIndex]
		original := clip
		c.originalClip = &original

		relativeSplit := c.splitPosition - clip.Position
		if relativeSplit <= 0 || relativeSplit >= clip.Length {
			return
		}

		secondHalf := Region{
			ID:           clip.ID + "_split",
			Position:     c.splitPosition,
			Length:       clip.Length - relativeSplit,
			SourceOffset: clip.SourceOffset + relativeSplit,
		}
		track.Regions[c.clipIndex].Length = relativeSplit

		insertAt := c.clipIndex + 1
		track.Regions = append(track.Regions, Region{})
		copy(track.Regions[insertAt+1:], track.Regions[insertAt:])
		track.Regions[insertAt] = secondHalf
	})
}

func (c *SplitClipCommand) Undo() {
	if c.originalClip == nil {
		return
	}
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		track := p.Tracks[c.trackIndex]
		if c.clipIndex+1 < len(track.Regions) {
			track.Regions = append(track.Regions[:c.clipIndex+1], track.Regions[c.clipIndex+2:]...)
		}
		if c.clipIndex < len(track.Regions) {
			track.Regions[c.clipIndex] = *c.originalClip
		}
	})
	c.originalClip = nil
}

func (c *SplitClipCommand) Name() string { return "Split Clip" }

// ═══════════════════════════════════════════════════════════════════════
// MIXER COMMANDS
// ═══════════════════════════════════════════════════════════════════════

// SetTrackVolumeCommand changes a track's fader gain, in dB.
type SetTrackVolumeCommand struct {
	project            *Project
	trackIndex         int
	oldVolume, newVolume float64
}

func NewSetTrackVolumeCommand(project *Project, trackIndex int, newVolume float64) *SetTrackVolumeCommand {
	c := &SetTrackVolumeCommand{project: project, trackIndex: trackIndex, newVolume: newVolume}
	project.WithRead(func(p *Project) {
		if trackIndex < len(p.Tracks) {
			c.oldVolume = p.Tracks[trackIndex].VolumeDB
		}
	})
	return c
}

func (c *SetTrackVolumeCommand) setVolume(db float64) {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex < len(p.Tracks) {
			p.Tracks[c.trackIndex].VolumeDB = db
		}
	})
}

func (c *SetTrackVolumeCommand) Execute() { c.setVolume(c.newVolume) }
func (c *SetTrackVolumeCommand) Undo()    { c.setVolume(c.oldVolume) }
func (c *SetTrackVolumeCommand) Name() string { return "Set Volume" }

func (c *SetTrackVolumeCommand) CanMerge(other Command) bool {
	o, ok := other.(*SetTrackVolumeCommand)
	return ok && o.trackIndex == c.trackIndex
}

func (c *SetTrackVolumeCommand) Merge(other Command) {
	c.newVolume = other.(*SetTrackVolumeCommand).newVolume
}

// SetTrackPanCommand changes a track's pan position.
type SetTrackPanCommand struct {
	project         *Project
	trackIndex      int
	oldPan, newPan  float64
}

func NewSetTrackPanCommand(project *Project, trackIndex int, newPan float64) *SetTrackPanCommand {
	c := &SetTrackPanCommand{project: project, trackIndex: trackIndex, newPan: newPan}
	project.WithRead(func(p *Project) {
		if trackIndex < len(p.Tracks) {
			c.oldPan = p.Tracks[trackIndex].Pan
		}
	})
	return c
}

func (c *SetTrackPanCommand) setPan(pan float64) {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex < len(p.Tracks) {
			p.Tracks[c.trackIndex].Pan = pan
		}
	})
}

func (c *SetTrackPanCommand) Execute() { c.setPan(c.newPan) }
func (c *SetTrackPanCommand) Undo()    { c.setPan(c.oldPan) }
func (c *SetTrackPanCommand) Name() string { return "Set Pan" }

func (c *SetTrackPanCommand) CanMerge(other Command) bool {
	o, ok := other.(*SetTrackPanCommand)
	return ok && o.trackIndex == c.trackIndex
}

func (c *SetTrackPanCommand) Merge(other Command) {
	c.newPan = other.(*SetTrackPanCommand).newPan
}

// ToggleTrackMuteCommand flips a track's mute flag; its own inverse.
type ToggleTrackMuteCommand struct {
	project    *Project
	trackIndex int
}

func NewToggleTrackMuteCommand(project *Project, trackIndex int) *ToggleTrackMuteCommand {
	return &ToggleTrackMuteCommand{project: project, trackIndex: trackIndex}
}

func (c *ToggleTrackMuteCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex < len(p.Tracks) {
			p.Tracks[c.trackIndex].Mute = !p.Tracks[c.trackIndex].Mute
		}
	})
}

func (c *ToggleTrackMuteCommand) Undo()        { c.Execute() }
func (c *ToggleTrackMuteCommand) Name() string { return "Toggle Mute" }

// ToggleTrackSoloCommand flips a track's solo flag; its own inverse.
type ToggleTrackSoloCommand struct {
	project    *Project
	trackIndex int
}

func NewToggleTrackSoloCommand(project *Project, trackIndex int) *ToggleTrackSoloCommand {
	return &ToggleTrackSoloCommand{project: project, trackIndex: trackIndex}
}

func (c *ToggleTrackSoloCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex < len(p.Tracks) {
			p.Tracks[c.trackIndex].Solo = !p.Tracks[c.trackIndex].Solo
		}
	})
}

func (c *ToggleTrackSoloCommand) Undo()        { c.Execute() }
func (c *ToggleTrackSoloCommand) Name() string { return "Toggle Solo" }

// ═══════════════════════════════════════════════════════════════════════
// AUTOMATION COMMANDS
// ═══════════════════════════════════════════════════════════════════════

func automationLane(p *Project, trackIndex int, laneName string) *AutomationLane {
	if trackIndex >= len(p.Tracks) {
		return nil
	}
	track := p.Tracks[trackIndex]
	if track.Automation == nil {
		track.Automation = make(map[string]*AutomationLane)
	}
	lane, ok := track.Automation[laneName]
	if !ok {
		lane = &AutomationLane{}
		track.Automation[laneName] = lane
	}
	return lane
}

// AddAutomationPointCommand inserts a point into a lane in sorted order.
type AddAutomationPointCommand struct {
	project       *Project
	trackIndex    int
	laneName      string
	point         AutomationPoint
	insertedIndex int
}

func NewAddAutomationPointCommand(project *Project, trackIndex int, laneName string, point AutomationPoint) *AddAutomationPointCommand {
	return &AddAutomationPointCommand{project: project, trackIndex: trackIndex, laneName: laneName, point: point}
}

func (c *AddAutomationPointCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		lane := automationLane(p, c.trackIndex, c.laneName)
		if lane == nil {
			return
		}
		pos := len(lane.Points)
		for i, existing := range lane.Points {
			if existing.Position > c.point.Position {
				pos = i
				break
			}
		}
		lane.Points = append(lane.Points, AutomationPoint{})
		copy(lane.Points[pos+1:], lane.Points[pos:])
		lane.Points[pos] = c.point
		c.insertedIndex = pos
	})
}

func (c *AddAutomationPointCommand) Undo() {
	c.project.WithWrite(func(p *Project) {
		lane := automationLane(p, c.trackIndex, c.laneName)
		if lane == nil || c.insertedIndex >= len(lane.Points) {
			return
		}
		lane.Points = append(lane.Points[:c.insertedIndex], lane.Points[c.insertedIndex+1:]...)
	})
}

func (c *AddAutomationPointCommand) Name() string { return "Add Automation Point" }

// MoveAutomationPointCommand repositions and/or revalues a point.
type MoveAutomationPointCommand struct {
	project                        *Project
	trackIndex                     int
	laneName                       string
	pointIndex                     int
	oldPosition, newPosition       int64
	oldValue, newValue             float64
}

func NewMoveAutomationPointCommand(project *Project, trackIndex int, laneName string, pointIndex int, newPosition int64, newValue float64) *MoveAutomationPointCommand {
	c := &MoveAutomationPointCommand{
		project: project, trackIndex: trackIndex, laneName: laneName, pointIndex: pointIndex,
		newPosition: newPosition, newValue: newValue,
	}
	project.WithRead(func(p *Project) {
		if trackIndex >= len(p.Tracks) {
			return
		}
		lane, ok := p.Tracks[trackIndex].Automation[laneName]
		if !ok || pointIndex >= len(lane.Points) {
			return
		}
		c.oldPosition = lane.Points[pointIndex].Position
		c.oldValue = lane.Points[pointIndex].Value
	})
	return c
}

func (c *MoveAutomationPointCommand) set(pos int64, value float64) {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		lane, ok := p.Tracks[c.trackIndex].Automation[c.laneName]
		if !ok || c.pointIndex >= len(lane.Points) {
			return
		}
		lane.Points[c.pointIndex].Position = pos
		lane.Points[c.pointIndex].Value = value
	})
}

func (c *MoveAutomationPointCommand) Execute() { c.set(c.newPosition, c.newValue) }
func (c *MoveAutomationPointCommand) Undo()    { c.set(c.oldPosition, c.oldValue) }
func (c *MoveAutomationPointCommand) Name() string { return "Move Automation Point" }

func (c *MoveAutomationPointCommand) CanMerge(other Command) bool {
	o, ok := other.(*MoveAutomationPointCommand)
	return ok && o.trackIndex == c.trackIndex && o.laneName == c.laneName && o.pointIndex == c.pointIndex
}

func (c *MoveAutomationPointCommand) Merge(other Command) {
	o := other.(*MoveAutomationPointCommand)
	c.newPosition = o.newPosition
	c.newValue = o.newValue
}

// DeleteAutomationPointCommand removes a point from a lane.
type DeleteAutomationPointCommand struct {
	project       *Project
	trackIndex    int
	laneName      string
	pointIndex    int
	removedPoint  *AutomationPoint
}

func NewDeleteAutomationPointCommand(project *Project, trackIndex int, laneName string, pointIndex int) *DeleteAutomationPointCommand {
	return &DeleteAutomationPointCommand{project: project, trackIndex: trackIndex, laneName: laneName, pointIndex: pointIndex}
}

func (c *DeleteAutomationPointCommand) Execute() {
	c.project.WithWrite(func(p *Project) {
		if c.trackIndex >= len(p.Tracks) {
			return
		}
		lane, ok := p.Tracks[c.trackIndex].Automation[c.laneName]
		if !ok || c.pointIndex >= len(lane.Points) {
			return
		}
		removed := lane.Points[c.pointIndex]
		c.removedPoint = &removed
		lane.Points = append(lane.Points[:c.pointIndex], lane.Points[c.pointIndex+1:]...)
	})
}

func (c *DeleteAutomationPointCommand) Undo() {
	if c.removedPoint == nil {
		return
	}
	c.project.WithWrite(func(p *Project) {
		lane := automationLane(p, c.trackIndex, c.laneName)
		if lane == nil {
			return
		}
		idx := c.pointIndex
		if idx > len(lane.Points) {
			idx = len(lane.Points)
		}
		lane.Points = append(lane.Points, AutomationPoint{})
		copy(lane.Points[idx+1:], lane.Points[idx:])
		lane.Points[idx] = *c.removedPoint
	})
	c.removedPoint = nil
}

func (c *DeleteAutomationPointCommand) Name() string { return "Delete Automation Point" }

// ═══════════════════════════════════════════════════════════════════════
// PROJECT COMMANDS
// ═══════════════════════════════════════════════════════════════════════

// SetTempoCommand changes the project tempo.
type SetTempoCommand struct {
	project              *Project
	oldTempo, newTempo   float64
}

func NewSetTempoCommand(project *Project, newTempo float64) *SetTempoCommand {
	c := &SetTempoCommand{project: project, newTempo: newTempo}
	project.WithRead(func(p *Project) { c.oldTempo = p.Tempo })
	return c
}

func (c *SetTempoCommand) setTempo(bpm float64) {
	c.project.WithWrite(func(p *Project) { p.Tempo = bpm })
}

func (c *SetTempoCommand) Execute() { c.setTempo(c.newTempo) }
func (c *SetTempoCommand) Undo()    { c.setTempo(c.oldTempo) }
func (c *SetTempoCommand) Name() string { return "Set Tempo" }

func (c *SetTempoCommand) CanMerge(other Command) bool {
	_, ok := other.(*SetTempoCommand)
	return ok
}

func (c *SetTempoCommand) Merge(other Command) {
	c.newTempo = other.(*SetTempoCommand).newTempo
}

// SetLoopRegionCommand replaces the project's loop region wholesale.
type SetLoopRegionCommand struct {
	project        *Project
	oldLoop, newLoop LoopRegion
}

func NewSetLoopRegionCommand(project *Project, enabled bool, start, end int64) *SetLoopRegionCommand {
	c := &SetLoopRegionCommand{project: project, newLoop: LoopRegion{Enabled: enabled, Start: start, End: end}}
	project.WithRead(func(p *Project) { c.oldLoop = p.Loop })
	return c
}

func (c *SetLoopRegionCommand) setLoop(l LoopRegion) {
	c.project.WithWrite(func(p *Project) { p.Loop = l })
}

func (c *SetLoopRegionCommand) Execute() { c.setLoop(c.newLoop) }
func (c *SetLoopRegionCommand) Undo()    { c.setLoop(c.oldLoop) }
func (c *SetLoopRegionCommand) Name() string { return "Set Loop Region" }
