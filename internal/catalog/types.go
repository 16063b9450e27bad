package catalog

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrotrade/agrotrade-client/pkg/types"
)

// ListingSummary is the denormalized projection of a listing used for list
// and grid display. It is replaced wholesale on every page fetch and never
// mutated in place.
type ListingSummary struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Images    ImageList       `json:"images"`
	Location  types.Location  `json:"location"`
	CreatedAt time.Time       `json:"createdAt"`
	Category  string          `json:"category"`
	Views     int             `json:"views"`
	UserID    int64           `json:"userId"`
}

// ImageList tolerates both wire shapes for listing images: a plain URL array
// and an array of objects carrying a url field.
type ImageList []string

func (il *ImageList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		*il = plain
		return nil
	}

	var wrapped []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	urls := make([]string, 0, len(wrapped))
	for _, w := range wrapped {
		if w.URL != "" {
			urls = append(urls, w.URL)
		}
	}
	*il = urls
	return nil
}
