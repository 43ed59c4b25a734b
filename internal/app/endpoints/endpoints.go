package endpoints

// Endpoints holds every endpoint the HTTP transport serves.
type Endpoints struct {
	AwardEndpoint AwardEndpoint
}
