package genai

// Wire types for the generative language REST API. Field names follow the
// API's JSON casing, only the fields this client reads are declared.

type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch *emptyTool `json:"google_search,omitempty"`
	URLContext   *emptyTool `json:"url_context,omitempty"`
}

type emptyTool struct{}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content           content            `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata"`
}

type groundingMetadata struct {
	WebSearchQueries  []string          `json:"webSearchQueries"`
	GroundingChunks   []groundingChunk  `json:"groundingChunks"`
	GroundingSupports []groundingAnchor `json:"groundingSupports"`
}

type groundingChunk struct {
	Web *webSource `json:"web"`
}

type webSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type groundingAnchor struct {
	Segment               *segment `json:"segment"`
	GroundingChunkIndices []int    `json:"groundingChunkIndices"`
}

type segment struct {
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
	Text       string `json:"text"`
}

type listModelsResponse struct {
	Models        []apiModel `json:"models"`
	NextPageToken string     `json:"nextPageToken"`
}

type apiModel struct {
	Name                       string   `json:"name"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
