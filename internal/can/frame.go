package can

// Frame is a single classic CAN 2.0A frame as delivered by the adapter.
type Frame struct {
	ID   uint32
	Len  int
	Data [8]byte
}

// Group tells the decoder which delivery group a frame belongs to: the
// energy group carries charge and battery telemetry, the body group the
// drive and body telemetry. Ordering is only guaranteed within a group.
type Group int

const (
	GroupEnergy Group = iota
	GroupBody
)

func (g Group) String() string {
	if g == GroupBody {
		return "body"
	}
	return "energy"
}

// GroupForID is the acceptance filter: 0x340-0x377 and 0x389 belong to
// the energy group, five fixed identifiers to the body group. Anything
// else never reaches the decoder.
func GroupForID(id uint32) (Group, bool) {
	switch {
	case id >= 0x340 && id <= 0x377:
		return GroupEnergy, true
	case id == 0x389:
		return GroupEnergy, true
	case id == 0x285, id == 0x286, id == 0x298, id == 0x412, id == 0x6E1:
		return GroupBody, true
	}
	return 0, false
}
