package sources

const (
	SeptaAlertsURL         = "https://www3.septa.org/api/Alerts/index.php"
	AmtrakTrainsURL        = "https://api-v3.amtraker.com/v3/trains"
	PA511RoadConditionsURL = "https://www.511pa.com/api/v2/get/roadconditions"
)
