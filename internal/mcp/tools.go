package mcp

// SearchCatalogInput defines the input schema for the search_catalog tool.
type SearchCatalogInput struct {
	Query         string `json:"query,omitempty" jsonschema:"free-text query; every word must appear in the listing. Leave empty to browse"`
	Brand         string `json:"brand,omitempty" jsonschema:"only listings of this brand, case-insensitive"`
	AvailableOnly bool   `json:"available_only,omitempty" jsonschema:"only listings that are in stock"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
}

// SearchCatalogOutput defines the output schema for the search_catalog tool.
type SearchCatalogOutput struct {
	Results []ItemSummary `json:"results" jsonschema:"matching listings in catalog order"`
	Total   int           `json:"total" jsonschema:"number of matches before the limit was applied"`
}

// ItemSummary is one listing in a result list.
type ItemSummary struct {
	ID          string  `json:"id" jsonschema:"catalog id"`
	Name        string  `json:"name" jsonschema:"display name"`
	Highlighted string  `json:"highlighted,omitempty" jsonschema:"name with query terms wrapped in <mark> tags"`
	Brand       string  `json:"brand" jsonschema:"brand"`
	FromPrice   float64 `json:"from_price" jsonschema:"lowest variant price in EGP"`
	InStock     bool    `json:"in_stock" jsonschema:"whether the listing can be ordered"`
	Favorite    bool    `json:"favorite" jsonschema:"whether the user favorited this listing"`
}

// GetItemInput defines the input schema for the get_item tool.
type GetItemInput struct {
	ID string `json:"id" jsonschema:"catalog id of the listing"`
}

// ItemDetail is a full listing.
type ItemDetail struct {
	ItemSummary
	Variants []VariantOutput   `json:"variants" jsonschema:"RAM/storage configurations with prices"`
	Colors   []ColorOutput     `json:"colors" jsonschema:"available colors"`
	Specs    map[string]string `json:"specs,omitempty" jsonschema:"specification sheet"`
	Pros     []string          `json:"pros,omitempty" jsonschema:"strengths"`
	Cons     []string          `json:"cons,omitempty" jsonschema:"weaknesses"`
}

// VariantOutput is one RAM/storage configuration.
type VariantOutput struct {
	ID      string  `json:"id,omitempty" jsonschema:"variant id"`
	RAM     string  `json:"ram" jsonschema:"memory size"`
	Storage string  `json:"storage" jsonschema:"storage size"`
	Price   float64 `json:"price" jsonschema:"price in EGP"`
}

// ColorOutput is one color option.
type ColorOutput struct {
	Key   string `json:"key" jsonschema:"color key"`
	Label string `json:"label" jsonschema:"display label"`
	Code  string `json:"code" jsonschema:"hex color code"`
	Image string `json:"image,omitempty" jsonschema:"image path for this color"`
}

// ListBrandsInput defines the input schema for the list_brands tool.
type ListBrandsInput struct{}

// ListBrandsOutput defines the output schema for the list_brands tool.
type ListBrandsOutput struct {
	Brands []string `json:"brands" jsonschema:"distinct brands in first-seen catalog order"`
}

// StorageStatusInput defines the input schema for the storage_status tool.
type StorageStatusInput struct{}

// StorageStatusOutput defines the output schema for the storage_status tool.
type StorageStatusOutput struct {
	Writable       bool   `json:"writable" jsonschema:"whether durable storage accepts writes"`
	FavoritesCount int    `json:"favorites_count" jsonschema:"distinct favorites currently persisted"`
	Theme          string `json:"theme" jsonschema:"persisted theme, dark or light"`
	Backend        string `json:"backend" jsonschema:"configured storage backend"`
	Degraded       string `json:"degraded,omitempty" jsonschema:"why durable storage is unavailable, if it is"`
}

// ToggleFavoriteInput defines the input schema for the toggle_favorite tool.
type ToggleFavoriteInput struct {
	ID string `json:"id" jsonschema:"catalog id of the listing"`
}

// ToggleFavoriteOutput defines the output schema for the toggle_favorite tool.
type ToggleFavoriteOutput struct {
	ID       string `json:"id" jsonschema:"catalog id of the listing"`
	Favorite bool   `json:"favorite" jsonschema:"membership after the toggle"`
	Count    int    `json:"count" jsonschema:"number of favorites after the toggle"`
}
