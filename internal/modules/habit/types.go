package habit

import (
	"encoding/json"
	"errors"
)

// UpdateTodayDTO is a partial update of today's record. A present
// brushing_time of null clears the stored time.
type UpdateTodayDTO struct {
	Brushed         *bool `json:"brushed"`
	Flossed         *bool `json:"flossed"`
	BrushingTime    *int  `json:"brushing_time"`
	HasBrushingTime bool  `json:"-"`
}

func (d *UpdateTodayDTO) UnmarshalJSON(data []byte) error {
	type plain UpdateTodayDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*d = UpdateTodayDTO(p)
	_, d.HasBrushingTime = keys["brushing_time"]
	return nil
}

type habitResponse struct {
	Date         string `json:"date"`
	Brushed      bool   `json:"brushed"`
	Flossed      bool   `json:"flossed"`
	BrushingTime *int   `json:"brushing_time"`
}

var errNegativeBrushingTime = errors.New("brushing_time must not be negative")
