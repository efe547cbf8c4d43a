package deal

// Analysis is the outcome of analyzing a deal either at its sale price or
// at the highest price that meets the criteria.
type Analysis struct {
	PurchasePrice float64       `json:"purchase_price"`
	Adjusted      bool          `json:"adjusted"`
	MeetsCriteria bool          `json:"meets_criteria"`
	Criteria      Criteria      `json:"criteria"`
	Result        Result        `json:"result"`
	Search        *SearchResult `json:"search,omitempty"`
}

// Analyze evaluates in with DefaultPolicy. See Policy.Analyze.
func Analyze(in Input, c Criteria, adjust bool) (Analysis, error) {
	return DefaultPolicy().Analyze(in, c, adjust)
}

// Analyze evaluates in at its sale price, or, when adjust is set, at the
// highest purchase price that meets c.
func (p Policy) Analyze(in Input, c Criteria, adjust bool) (Analysis, error) {
	a := Analysis{PurchasePrice: in.SalePrice, Criteria: c}

	if adjust {
		res, err := p.Search(in, c)
		if err != nil {
			return Analysis{}, err
		}
		a.PurchasePrice = float64(res.Price)
		a.Adjusted = true
		a.Search = &res
	}

	r, err := p.Evaluate(in, a.PurchasePrice)
	if err != nil {
		return Analysis{}, err
	}
	a.Result = r
	a.MeetsCriteria = c.Met(r)
	return a, nil
}
