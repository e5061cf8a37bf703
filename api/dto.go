package api

// PredictionRequest is the body of POST /predict. Numeric fields are pointers
// so that zero values (hour 0, Monday) survive the required check.
type PredictionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Hour      *int     `json:"hour" binding:"required,gte=0,lte=23"`
	DayOfWeek *int     `json:"day_of_week" binding:"required,gte=0,lte=6"`
	Month     *int     `json:"month" binding:"required,gte=1,lte=12"`
}

// PredictionResponse is the result of one demand prediction.
type PredictionResponse struct {
	CellID          string  `json:"h3_index"`
	PredictedDemand float64 `json:"predicted_demand"`
	DemandLevel     string  `json:"demand_level"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Hour            int     `json:"hour"`
	DayOfWeek       int     `json:"day_of_week"`
	Timestamp       string  `json:"timestamp"`
}

// HealthResponse reports service and model state.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Timestamp   string `json:"timestamp"`
}
