package entity

import (
	"encoding/json"
	"time"
)

// Details holds the five offer attributes. The legacy API addressed these
// positionally inside an ordered list; here they are keyed fields, which
// removes the order dependence, while MarshalJSON still renders the list of
// single-key records the clients expect.
type Details struct {
	Brand     string
	Size      string
	Condition string
	Color     string
	Location  string
}

// detailKeys fixes the rendering order of the attribute records.
var detailKeys = [5]string{"brand", "size", "condition", "color", "location"}

func (d Details) values() [5]string {
	return [5]string{d.Brand, d.Size, d.Condition, d.Color, d.Location}
}

// MarshalJSON renders [{"brand":..},{"size":..},{"condition":..},
// {"color":..},{"location":..}] in that fixed order.
func (d Details) MarshalJSON() ([]byte, error) {
	vals := d.values()
	records := make([]map[string]string, 0, len(detailKeys))
	for i, k := range detailKeys {
		records = append(records, map[string]string{k: vals[i]})
	}
	return json.Marshal(records)
}

// UnmarshalJSON accepts the record list in any order.
func (d *Details) UnmarshalJSON(data []byte) error {
	var records []map[string]string
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	for _, rec := range records {
		for k, v := range rec {
			switch k {
			case "brand":
				d.Brand = v
			case "size":
				d.Size = v
			case "condition":
				d.Condition = v
			case "color":
				d.Color = v
			case "location":
				d.Location = v
			}
		}
	}
	return nil
}

// Offer is a product listing. OwnerID is immutable after creation; only the
// owning caller may mutate or delete the offer. Owner carries the redacted
// owner projection on reads and is never persisted as such.
type Offer struct {
	ID          string        `json:"id"`
	Name        string        `json:"product_name"`
	Description string        `json:"product_description"`
	Price       float64       `json:"product_price"`
	Details     Details       `json:"product_details"`
	Image       *Image        `json:"product_image,omitempty"`
	OwnerID     string        `json:"-"`
	Owner       *OwnerProfile `json:"owner,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
