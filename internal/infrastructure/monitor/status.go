package monitor

import "time"

type Status struct {
	Storage   bool      `json:"storage"`
	Driver    string    `json:"driver"`
	LastCheck time.Time `json:"last_check"`
}
