package world

import "fmt"

// ResourceType is the categorical label carried by every tile.
type ResourceType uint8

const (
	ResourceUnset  ResourceType = iota // Not yet assigned by a generation stage
	ResourceWood                       // Forest
	ResourceBrick                      // Hills / clay
	ResourceSheep                      // Pasture
	ResourceWheat                      // Fields
	ResourceOre                        // Mountains
	ResourceDesert                     // Produces nothing
	ResourceWater                      // Sea, impassable for land pieces
)

// MainResources are the five quota-assigned land resources, in assignment order.
var MainResources = [5]ResourceType{
	ResourceWood,
	ResourceBrick,
	ResourceSheep,
	ResourceWheat,
	ResourceOre,
}

// LandPriority orders every land type for smoothing tie-breaks.
// Earlier entries win ties.
var LandPriority = [6]ResourceType{
	ResourceWood,
	ResourceBrick,
	ResourceSheep,
	ResourceWheat,
	ResourceOre,
	ResourceDesert,
}

var resourceNames = [...]string{
	ResourceUnset:  "Unset",
	ResourceWood:   "Wood",
	ResourceBrick:  "Brick",
	ResourceSheep:  "Sheep",
	ResourceWheat:  "Wheat",
	ResourceOre:    "Ore",
	ResourceDesert: "Desert",
	ResourceWater:  "Water",
}

// String returns the wire label for a resource type.
func (t ResourceType) String() string {
	if int(t) < len(resourceNames) {
		return resourceNames[t]
	}
	return fmt.Sprintf("ResourceType(%d)", uint8(t))
}

// IsLand reports whether t is an assigned, non-water type.
func (t ResourceType) IsLand() bool {
	return t >= ResourceWood && t <= ResourceDesert
}

// ParseResource converts a wire label back into a ResourceType.
func ParseResource(s string) (ResourceType, error) {
	for i, name := range resourceNames {
		if i == int(ResourceUnset) {
			continue
		}
		if name == s {
			return ResourceType(i), nil
		}
	}
	return ResourceUnset, fmt.Errorf("unknown resource type %q", s)
}

// MarshalText encodes the resource as its label.
func (t ResourceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (t *ResourceType) UnmarshalText(b []byte) error {
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
