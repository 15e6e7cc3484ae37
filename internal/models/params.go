package models

// PlanParams bundles the field geometry, fleet size and energy constants
// of one planning problem. The config package supplies the deployment
// defaults; the API and the simulation CLI override per run.
type PlanParams struct {
	WidthMeters           float64 `json:"width_m"`
	HeightMeters          float64 `json:"height_m"`
	CellSideMeters        float64 `json:"cell_side_m"`
	CollectionRangeMeters float64 `json:"collection_range_m"`

	AgentCount int `json:"agent_count"`

	MoveJPerMeter      float64 `json:"move_j_per_m"`
	ElecJPerBit        float64 `json:"elec_j_per_bit"`
	AmpJPerBitM2       float64 `json:"amp_j_per_bit_m2"`
	SegmentPayloadBits float64 `json:"segment_payload_bits"`
}
