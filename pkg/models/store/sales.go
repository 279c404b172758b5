package store

// Sale is a row of the `sales` collection with its relations expanded inline.
type Sale struct {
	TransNo   string       `json:"transno"`
	SalesDate *string      `json:"salesdate"`
	CustNo    string       `json:"custno"`
	Customer  *CustomerRef `json:"customer"`
	EmpNo     *string      `json:"empno"`
	Employee  *Employee    `json:"employee"`
	Details   []SaleDetail `json:"salesdetails"`
}

type Employee struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
}

type SaleDetail struct {
	Quantity int      `json:"quantity"`
	ProdCode string   `json:"prodcode"`
	Product  *Product `json:"product"`
}

type Product struct {
	Description *string `json:"description"`
	Unit        *string `json:"unit"`
}

// SalesFilter narrows a sales query. An empty CustNo selects every customer.
type SalesFilter struct {
	CustNo string
	Limit  int
}
