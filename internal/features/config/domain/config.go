package domain

// Catalog selection strategies.
const (
	StrategyBrandMatch  = "brand_match"
	StrategyFixedSample = "fixed_sample"
)

// AppConfig represents the application configuration.
type AppConfig struct {
	Catalog     CatalogConfig  `json:"catalog"`
	ModelParams ModelParams    `json:"model_params"`
	Document    DocumentConfig `json:"document"`
}

// CatalogConfig controls where products are read from and how they are narrowed.
type CatalogConfig struct {
	Strategy        string `json:"strategy"`  // "brand_match" or "fixed_sample"
	Directory       string `json:"directory"` // scanned for *.json by brand_match
	File            string `json:"file"`      // single file read by fixed_sample
	SampleSize      int    `json:"sample_size"`
	WithIngredients bool   `json:"with_ingredients"`
}

// ModelParams defines the parameters for the AI model.
type ModelParams struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DocumentConfig holds the static text printed above the plan table.
type DocumentConfig struct {
	Title      string `json:"title"`
	DateLine   string `json:"date_line"`
	AuthorLine string `json:"author_line"`
}

// DefaultAppConfig returns the configuration used when no config file exists.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Catalog: CatalogConfig{
			Strategy:   StrategyBrandMatch,
			Directory:  ".",
			File:       "cosmetics_data.json",
			SampleSize: 5,
		},
		ModelParams: ModelParams{
			Model:       "gpt-3.5-turbo",
			Temperature: 0.5,
			MaxTokens:   300,
		},
		Document: DocumentConfig{
			Title:      "이벤트 기획서",
			DateLine:   "작성일자: 2023년 2월 13일",
			AuthorLine: "작성자: 마케팅 기획팀 김철수",
		},
	}
}

// WithDefaults fills zero-valued fields from DefaultAppConfig.
func (c AppConfig) WithDefaults() AppConfig {
	def := DefaultAppConfig()
	if c.Catalog.Strategy == "" {
		c.Catalog.Strategy = def.Catalog.Strategy
	}
	if c.Catalog.Directory == "" {
		c.Catalog.Directory = def.Catalog.Directory
	}
	if c.Catalog.File == "" {
		c.Catalog.File = def.Catalog.File
	}
	if c.Catalog.SampleSize <= 0 {
		c.Catalog.SampleSize = def.Catalog.SampleSize
	}
	if c.ModelParams.Model == "" {
		c.ModelParams.Model = def.ModelParams.Model
	}
	if c.ModelParams.MaxTokens == 0 {
		c.ModelParams.MaxTokens = def.ModelParams.MaxTokens
	}
	if c.Document.Title == "" {
		c.Document.Title = def.Document.Title
	}
	if c.Document.DateLine == "" {
		c.Document.DateLine = def.Document.DateLine
	}
	if c.Document.AuthorLine == "" {
		c.Document.AuthorLine = def.Document.AuthorLine
	}
	return c
}
