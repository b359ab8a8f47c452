/*
facility.go - Facility capability bundle

PURPOSE:
  A Facility is the registry's view of one building: an identity, a world
  position, and whichever capability contracts the building exposes. The
  optional references are resolved once, when the facility is registered,
  so the scheduler never does per-call capability probing.
*/
package economy

// FacilityID identifies a registered facility.
type FacilityID string

// Facility bundles a building's identity, position and capabilities.
// Nil capability fields mean the facility does not expose that role.
type Facility struct {
	ID  FacilityID
	Pos Point

	Storage  Storage
	Producer Producer
	Consumer Consumer
}

// IsStorage reports whether the facility exposes the Storage role.
func (f *Facility) IsStorage() bool { return f != nil && f.Storage != nil }
