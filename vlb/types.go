package vlb

import (
	"github.com/goccy/go-json"
)

// Format selects the response representation requested via the Accept header.
type Format int

const (
	// FormatShort requests the abbreviated product representation
	FormatShort Format = iota
	// FormatLong requests the full product representation
	FormatLong
)

// Accept returns the Accept header value for the format
func (f Format) Accept() string {
	if f == FormatLong {
		return "application/json"
	}
	return "application/json-short"
}

// Valid reports whether f is a known format
func (f Format) Valid() bool {
	return f == FormatShort || f == FormatLong
}

// String returns the string representation of a Format
func (f Format) String() string {
	switch f {
	case FormatShort:
		return "short"
	case FormatLong:
		return "long"
	default:
		return "unknown"
	}
}

// IDType qualifies the identifier passed to GetProduct.
type IDType string

const (
	// IDTypeNone lets VLB resolve the identifier itself
	IDTypeNone   IDType = ""
	IDTypeGTIN   IDType = "gtin"
	IDTypeISBN13 IDType = "isbn13"
	IDTypeEAN    IDType = "ean"
)

// Valid checks if the id type is one VLB accepts
func (t IDType) Valid() bool {
	switch t {
	case IDTypeNone, IDTypeGTIN, IDTypeISBN13, IDTypeEAN:
		return true
	}
	return false
}

// CoverSize is the size variant of a cover image.
type CoverSize string

const (
	CoverSmall  CoverSize = "s"
	CoverMedium CoverSize = "m"
	CoverLarge  CoverSize = "l"
)

// Valid checks if the size is one VLB serves
func (s CoverSize) Valid() bool {
	return s == CoverSmall || s == CoverMedium || s == CoverLarge
}

// ParseCoverSize accepts both the short codes and the long names.
func ParseCoverSize(s string) (CoverSize, error) {
	switch s {
	case "s", "small":
		return CoverSmall, nil
	case "m", "medium", "":
		return CoverMedium, nil
	case "l", "large":
		return CoverLarge, nil
	}
	return "", argumentError("cover", "invalid cover size %q (must be s, m or l)", s)
}

// MediaType filters the media files attached to a product.
type MediaType string

const (
	// MediaAll returns every media file
	MediaAll      MediaType = ""
	MediaImage    MediaType = "image"
	MediaAudio    MediaType = "audio"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// Valid checks if the media type is known
func (m MediaType) Valid() bool {
	switch m {
	case MediaAll, MediaImage, MediaAudio, MediaVideo, MediaDocument:
		return true
	}
	return false
}

// IndexField is a searchable VLB index.
type IndexField string

const (
	IndexPublisher IndexField = "publisher"
	IndexPerson    IndexField = "person"
	IndexTitle     IndexField = "title"
	IndexKeyword   IndexField = "keyword"
	IndexSeries    IndexField = "series"
)

// Valid checks if the index field is known
func (f IndexField) Valid() bool {
	switch f {
	case IndexPublisher, IndexPerson, IndexTitle, IndexKeyword, IndexSeries:
		return true
	}
	return false
}

// Status filters search results by availability.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Direction is the sort direction of a search.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Product is a single VLB product record. Only the fields common to the short
// and long representations are decoded; Raw keeps the full document.
type Product struct {
	ID              string          `json:"id"`
	ProductType     string          `json:"productType,omitempty"`
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle,omitempty"`
	Author          string          `json:"author,omitempty"`
	Publisher       string          `json:"publisher,omitempty"`
	ISBN            string          `json:"isbn,omitempty"`
	GTIN            string          `json:"gtin,omitempty"`
	PublicationDate string          `json:"publicationDate,omitempty"`
	Raw             json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the raw document
func (p *Product) UnmarshalJSON(data []byte) error {
	type product Product
	var decoded product
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Product(decoded)
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the raw document when present so nothing is lost
func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	type product Product
	return json.Marshal(product(p))
}

// Fields decodes the raw document into a generic map.
func (p *Product) Fields() (map[string]any, error) {
	fields := make(map[string]any)
	if len(p.Raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(p.Raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// DisplayTitle returns the title with the subtitle appended if present
func (p *Product) DisplayTitle() string {
	if p.Subtitle == "" {
		return p.Title
	}
	return p.Title + ": " + p.Subtitle
}

// Identifier returns the best available identifier for the product
func (p *Product) Identifier() string {
	if p.ISBN != "" {
		return p.ISBN
	}
	if p.GTIN != "" {
		return p.GTIN
	}
	return p.ID
}

// searchResponse is the envelope returned by the products endpoint
type searchResponse struct {
	Content          []Product `json:"content"`
	TotalPages       *int      `json:"totalPages"`
	NumberOfElements int       `json:"numberOfElements"`
	TotalElements    int       `json:"totalElements"`
}

// errorResponse is the descriptor VLB embeds in failed responses
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Cover is a cover image payload.
type Cover struct {
	Data        []byte
	ContentType string
}

// MediaFile describes a media asset attached to a product.
type MediaFile struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	MimeType  string `json:"mimeType,omitempty"`
	URL       string `json:"url,omitempty"`
	Copyright string `json:"copyright,omitempty"`
}

// IndexEntry is a single hit of an index lookup.
type IndexEntry struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Count int    `json:"count,omitempty"`
}

// Publisher is a VLB publisher record.
type Publisher struct {
	MVBID   string `json:"mvbId"`
	Name    string `json:"name"`
	Street  string `json:"street,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}
