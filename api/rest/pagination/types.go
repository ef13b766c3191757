package pagination

// limit/offset window requested by the client
type Params struct {
	Limit  int
	Offset int
}

// window plus the total it was cut from
type Meta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}
