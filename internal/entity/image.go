package entity

// Image describes a stored image record. The encoded bytes live in the
// repository, keyed by ID.
type Image struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SuggestedPosition is a named anchor point for text placement, in pixel
// coordinates of the image it was computed for.
type SuggestedPosition struct {
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type GenerateResponse struct {
	Success            bool                `json:"success"`
	ImageID            string              `json:"image_id"`
	ImageURL           string              `json:"image_url"`
	ImageBase64        string              `json:"image_base64"`
	Width              int                 `json:"width"`
	Height             int                 `json:"height"`
	SuggestedPositions []SuggestedPosition `json:"suggested_positions"`
}

type AddTextResponse struct {
	Success     bool   `json:"success"`
	ImageID     string `json:"image_id"`
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64"`
}

type SuggestTextsResponse struct {
	Success bool     `json:"success"`
	Texts   []string `json:"texts"`
}
