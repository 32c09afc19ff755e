// ABOUTME: Place, hotel, trail and place-image records
// ABOUTME: Coordinates decode from either lat/lng or latitude/longitude
package models

import "encoding/json"

// Coordinates accepts both lat/lng and latitude/longitude spellings.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Lat != nil:
		c.Lat = *raw.Lat
	case raw.Latitude != nil:
		c.Lat = *raw.Latitude
	}
	switch {
	case raw.Lng != nil:
		c.Lng = *raw.Lng
	case raw.Longitude != nil:
		c.Lng = *raw.Longitude
	}
	return nil
}

type Place struct {
	ID          int64        `json:"id"`
	NameCN      string       `json:"nameCN"`
	NameEN      string       `json:"nameEN,omitempty"`
	Category    string       `json:"category"`
	Address     string       `json:"address,omitempty"`
	Rating      float64      `json:"rating,omitempty"`
	Location    *Coordinates `json:"location,omitempty"`
	DistanceM   *float64     `json:"distance,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Name prefers English.
func (p Place) Name() string {
	if p.NameEN != "" {
		return p.NameEN
	}
	return p.NameCN
}

type PlaceSearchParams struct {
	Query    string
	Category string
	Limit    int
}

type NearbyParams struct {
	Lat      float64
	Lng      float64
	RadiusM  int
	Category string
	Limit    int
}

type Autocomplete struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameEN string `json:"nameEN,omitempty"`
	Type   string `json:"type,omitempty"`
}

type SemanticSearchRequest struct {
	Query   string `json:"query"`
	Limit   int    `json:"limit,omitempty"`
	Country string `json:"country,omitempty"`
}

type Hotel struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Rating        float64         `json:"rating,omitempty"`
	PricePerNight *float64        `json:"pricePerNight,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	Location      *Coordinates    `json:"location,omitempty"`
	Address       string          `json:"address,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Extra         json.RawMessage `json:"metadata,omitempty"`
}

type HotelRecommendationParams struct {
	TripID   string
	City     string
	Budget   string
	CheckIn  string
	CheckOut string
}

type Trail struct {
	ID             int64   `json:"id"`
	NameCN         string  `json:"nameCN"`
	NameEN         string  `json:"nameEN,omitempty"`
	DistanceKm     float64 `json:"distanceKm"`
	ElevationGainM float64 `json:"elevationGainM"`
	Difficulty     string  `json:"difficulty,omitempty"`
}

type PlaceImageRequest struct {
	PlaceID     string `json:"placeId,omitempty"`
	PlaceName   string `json:"placeName"`
	PlaceNameEn string `json:"placeNameEn,omitempty"`
	Country     string `json:"country,omitempty"`
	Category    string `json:"category,omitempty"`
}

type PlacePhoto struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Color          string `json:"color"`
	BlurHash       string `json:"blurHash"`
	Description    string `json:"description,omitempty"`
	AltDescription string `json:"altDescription,omitempty"`
	URLs           struct {
		Raw     string `json:"raw"`
		Full    string `json:"full"`
		Regular string `json:"regular"`
		Small   string `json:"small"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
	Attribution struct {
		PhotographerName string `json:"photographerName"`
		PhotographerURL  string `json:"photographerUrl"`
		UnsplashURL      string `json:"unsplashUrl"`
	} `json:"attribution"`
}

type PlaceImageResult struct {
	PlaceID   string      `json:"placeId,omitempty"`
	PlaceName string      `json:"placeName"`
	Photo     *PlacePhoto `json:"photo"`
	Cached    bool        `json:"cached"`
	Error     string      `json:"error,omitempty"`
}

type BatchImageStats struct {
	Total  int `json:"total"`
	Found  int `json:"found"`
	Cached int `json:"cached"`
	Failed int `json:"failed"`
}

type BatchPlaceImages struct {
	Success          bool               `json:"success"`
	Results          []PlaceImageResult `json:"results"`
	Stats            BatchImageStats    `json:"stats"`
	ProcessingTimeMS int64              `json:"processingTimeMs"`
}

type ImageCacheStats struct {
	TotalEntries int     `json:"totalEntries"`
	HitCount     int     `json:"hitCount"`
	MissCount    int     `json:"missCount"`
	HitRate      float64 `json:"hitRate"`
	SizeBytes    *int64  `json:"sizeBytes,omitempty"`
	LastUpdated  string  `json:"lastUpdated,omitempty"`
}

type PlaceImageInfo struct {
	URL        string `json:"url"`
	Key        string `json:"key,omitempty"`
	Caption    string `json:"caption,omitempty"`
	Source     string `json:"source"`
	IsPrimary  bool   `json:"isPrimary"`
	UploadedAt string `json:"uploadedAt,omitempty"`
}

type PlaceImages struct {
	PlaceID   int64            `json:"placeId"`
	PlaceName string           `json:"placeName"`
	Images    []PlaceImageInfo `json:"images"`
	Count     int              `json:"count"`
}

type UploadedImages struct {
	PlaceID     int64            `json:"placeId"`
	PlaceName   string           `json:"placeName"`
	NewImages   []PlaceImageInfo `json:"newImages"`
	TotalImages int              `json:"totalImages"`
}
