package enrollment

// ApiResponse models one page of the registrar's enrollment listing.
type ApiResponse struct {
	Code int `json:"code"`
	Data struct {
		Page     int      `json:"page"`
		PageSize int      `json:"pageSize"`
		Total    int      `json:"total"`
		Items    []Record `json:"items"`
	} `json:"data"`
}

// Record is a student as the registrar reports it.
type Record struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Distance   int    `json:"distance"`
	Merit      int    `json:"merit"`
	Income     int    `json:"income"`
	Department string `json:"department"`
}
