package fiber

// CreateRecordRequest represents one (geo, date) observation
// @Description Response or cost record DTO
type CreateRecordRequest struct {
	Geo     string  `json:"geo" example:"US"`
	GeoName string  `json:"geo_name,omitempty" example:"United States"`
	Date    string  `json:"date" example:"2024-01-03"`
	Value   float64 `json:"value" example:"7"`
}

type CreateRecordResponse struct {
	Status string `json:"status"`
}

type BulkCreateRecordsRequest struct {
	Records []CreateRecordRequest `json:"records"`
}

type BulkCreateRecordsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_record"`
	Message string `json:"message" example:"invalid record: geo is required"`
}
