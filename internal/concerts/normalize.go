// Copyright (c) 2026 Concert Companion. All rights reserved.

package concerts

import "strconv"

// Raw Discovery API payload shapes. Only the fields the normalizer reads are
// modeled; everything else in the provider response is ignored on decode.

type tmEventsResponse struct {
	Embedded *struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	URL             string             `json:"url"`
	Images          []tmImage          `json:"images"`
	Sales           *tmSales           `json:"sales"`
	Dates           *tmDates           `json:"dates"`
	PriceRanges     []tmPriceRange     `json:"priceRanges"`
	Classifications []tmClassification `json:"classifications"`
	Embedded        *struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded"`
}

type tmImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type tmSales struct {
	Public *struct {
		StartDateTime string `json:"startDateTime"`
		EndDateTime   string `json:"endDateTime"`
	} `json:"public"`
}

type tmDates struct {
	Start *struct {
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
		DateTime  string `json:"dateTime"`
	} `json:"start"`
	Status *struct {
		Code string `json:"code"`
	} `json:"status"`
}

type tmPriceRange struct {
	Currency string   `json:"currency"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
}

type tmClassification struct {
	Segment  *tmNamed `json:"segment"`
	Genre    *tmNamed `json:"genre"`
	SubGenre *tmNamed `json:"subGenre"`
}

type tmNamed struct {
	Name string `json:"name"`
}

type tmVenue struct {
	Name string `json:"name"`
	City *struct {
		Name string `json:"name"`
	} `json:"city"`
	State *struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Country *struct {
		CountryCode string `json:"countryCode"`
	} `json:"country"`
	Address *struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	Location *struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}

// normalizeEvent converts one raw Discovery API event into the canonical
// [Event] shape. It never fails: any field it cannot resolve becomes nil and
// the rest of the event is still produced.
func normalizeEvent(raw tmEvent) Event {
	return Event{
		ID:              raw.ID,
		Name:            raw.Name,
		URL:             raw.URL,
		Date:            resolveDate(raw.Dates),
		SaleWindow:      resolveSaleWindow(raw.Sales),
		Status:          resolveStatus(raw.Dates),
		ImageURL:        resolveImage(raw.Images),
		Price:           resolvePrice(raw.PriceRanges),
		Venue:           resolveVenue(raw.Embedded),
		Classifications: resolveClassifications(raw.Classifications),
	}
}

// resolveDate picks the best available start timestamp. The full dateTime
// wins; otherwise localDate is used, joined with localTime when present.
func resolveDate(dates *tmDates) *string {
	if dates == nil || dates.Start == nil {
		return nil
	}

	start := dates.Start
	if start.DateTime != "" {
		return &start.DateTime
	}

	if start.LocalDate != "" {
		composed := start.LocalDate
		if start.LocalTime != "" {
			composed += "T" + start.LocalTime
		}
		return &composed
	}

	return nil
}

func resolveSaleWindow(sales *tmSales) SaleWindow {
	if sales == nil || sales.Public == nil {
		return SaleWindow{}
	}

	return SaleWindow{
		Start: strOrNil(sales.Public.StartDateTime),
		End:   strOrNil(sales.Public.EndDateTime),
	}
}

func resolveStatus(dates *tmDates) *string {
	if dates == nil || dates.Status == nil {
		return nil
	}
	return strOrNil(dates.Status.Code)
}

// resolveImage prefers the first image at least 640px wide, falling back to
// the first image of any size.
func resolveImage(images []tmImage) *string {
	for _, img := range images {
		if img.Width >= 640 && img.URL != "" {
			return &img.URL
		}
	}

	if len(images) > 0 && images[0].URL != "" {
		return &images[0].URL
	}

	return nil
}

// resolvePrice reads the first advertised price range. Min, max and currency
// default to nil independently; a range with only a currency still yields
// that currency.
func resolvePrice(ranges []tmPriceRange) Price {
	if len(ranges) == 0 {
		return Price{}
	}

	first := ranges[0]
	return Price{
		Min:      first.Min,
		Max:      first.Max,
		Currency: strOrNil(first.Currency),
	}
}

// resolveVenue flattens the first embedded venue. The human-readable state
// name is preferred over the state code when both are present.
func resolveVenue(embedded *struct {
	Venues []tmVenue `json:"venues"`
}) Venue {
	if embedded == nil || len(embedded.Venues) == 0 {
		return Venue{}
	}

	raw := embedded.Venues[0]
	venue := Venue{Name: strOrNil(raw.Name)}

	if raw.City != nil {
		venue.City = strOrNil(raw.City.Name)
	}
	if raw.State != nil {
		if raw.State.Name != "" {
			venue.State = &raw.State.Name
		} else {
			venue.State = strOrNil(raw.State.StateCode)
		}
	}
	if raw.Country != nil {
		venue.Country = strOrNil(raw.Country.CountryCode)
	}
	if raw.Address != nil {
		venue.Address = strOrNil(raw.Address.Line1)
	}
	if raw.Location != nil {
		venue.Latitude = floatOrNil(raw.Location.Latitude)
		venue.Longitude = floatOrNil(raw.Location.Longitude)
	}

	return venue
}

// resolveClassifications maps every provider classification entry. The result
// is always a non-nil slice so it marshals as [] rather than null.
func resolveClassifications(raw []tmClassification) []Classification {
	classifications := make([]Classification, 0, len(raw))

	for _, entry := range raw {
		classifications = append(classifications, Classification{
			Genre:    namedOrNil(entry.Genre),
			SubGenre: namedOrNil(entry.SubGenre),
			Segment:  namedOrNil(entry.Segment),
		})
	}

	return classifications
}

func namedOrNil(named *tmNamed) *string {
	if named == nil {
		return nil
	}
	return strOrNil(named.Name)
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// floatOrNil parses the provider's string-encoded coordinates. Malformed
// values degrade to nil rather than failing the event.
func floatOrNil(s string) *float64 {
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	return &f
}
