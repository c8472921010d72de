package mission

import (
	"github.com/halcyon-engine/missions/internal/cargo"
	"github.com/halcyon-engine/missions/internal/model"
	"github.com/halcyon-engine/missions/internal/ui"
)

// Controller is the engine-side surface handed to script hooks as their
// owner. Everything a quest script may do to its own mission goes through
// here; scripts never see the table or other missions.
type Controller struct {
	table *Table
	m     *ActiveMission
}

// ID returns the mission's runtime identifier.
func (c *Controller) ID() uint32 { return c.m.id }

// Name returns the mission's template name.
func (c *Controller) Name() string { return c.m.tmpl.Name }

// SetTitle sets the mission's display title.
func (c *Controller) SetTitle(title string) { c.m.Title = title }

// SetDesc sets the mission's description text.
func (c *Controller) SetDesc(desc string) { c.m.Desc = desc }

// SetReward sets the mission's reward text.
func (c *Controller) SetReward(reward string) { c.m.Reward = reward }

// SetNPC sets the offering NPC's display name and portrait.
func (c *Controller) SetNPC(name string, portrait ui.ImageHandle) {
	c.m.NPC = name
	c.m.Portrait = portrait
}

// SetTimer arms a countdown slot, overwriting whatever it held. The callback
// entry point fires once when the slot expires.
func (c *Controller) SetTimer(slot int, duration float64, callback string) error {
	return c.m.setTimer(slot, duration, callback)
}

// ClearTimer deactivates a countdown slot without firing it.
func (c *Controller) ClearTimer(slot int) error {
	return c.m.clearTimer(slot)
}

// SetMarker marks a target system on the map for this mission.
func (c *Controller) SetMarker(system string, class ui.MarkerClass) {
	c.m.marker = &ui.SystemMarker{System: system, Class: class}
	c.table.journalEvent(c.m, model.EventMarkerSet, "", map[string]any{
		"system": system, "class": class.String(),
	})
	if c.m.accepted {
		c.table.syncMarkers()
	}
}

// ClearMarker removes the mission's system marker.
func (c *Controller) ClearMarker() {
	c.m.marker = nil
	if c.m.accepted {
		c.table.syncMarkers()
	}
}

// SetOSD replaces the mission's on-screen display with script-supplied
// content, suppressing the engine-default one.
func (c *Controller) SetOSD(title string, items []string) {
	spec := ui.OSDSpec{Title: title, Items: items}
	if c.m.hasOSD {
		c.table.deps.UI.UpdateOSD(c.m.osd, spec)
	} else {
		c.m.osd = c.table.deps.UI.CreateOSD(spec)
		c.m.hasOSD = true
	}
	c.m.osdSet = true
}

// ClearOSD removes the mission's on-screen display.
func (c *Controller) ClearOSD() {
	if c.m.hasOSD {
		c.table.deps.UI.DestroyOSD(c.m.osd)
		c.m.hasOSD = false
	}
	c.m.osdSet = true // script took charge; no engine-default replacement
}

// AttachCargo links a cargo handle from the player's inventory to this
// mission.
func (c *Controller) AttachCargo(id cargo.ID) error {
	if err := c.table.deps.Linker.Attach(cargo.Owner(c.m.id), id); err != nil {
		return err
	}
	c.table.journalEvent(c.m, model.EventCargoLinked, "", map[string]any{"cargo": uint64(id)})
	return nil
}

// DetachCargo releases one cargo handle back to unattached inventory.
func (c *Controller) DetachCargo(id cargo.ID) error {
	if err := c.table.deps.Linker.Detach(cargo.Owner(c.m.id), id); err != nil {
		return err
	}
	c.table.journalEvent(c.m, model.EventCargoUnlinked, "", map[string]any{"cargo": uint64(id)})
	return nil
}

// Cargo returns the cargo handles this mission currently holds.
func (c *Controller) Cargo() []cargo.ID {
	return c.table.deps.Linker.Owned(cargo.Owner(c.m.id))
}

// IsDone reports whether the player ever completed the named mission.
func (c *Controller) IsDone(name string) bool {
	return c.table.deps.Completed.IsDone(name)
}

// Start chains into another mission by template name.
func (c *Controller) Start(name string) (uint32, error) {
	return c.table.StartByName(name)
}

// Finish ends this mission with the given outcome. Called from inside a hook
// the teardown is deferred until the current step's iteration completes.
func (c *Controller) Finish(outcome Outcome) error {
	return c.table.Finish(c.m.id, outcome)
}
