package domain

// OperationType はリクエストの `type` フィールドに入る判別子です。
type OperationType string

const (
	OperationDesign OperationType = "design"
	OperationStyle  OperationType = "style"
	OperationImage  OperationType = "image"
	OperationChat   OperationType = "chat"
)

// Operation は4種類のリクエストだけが実装できる閉じた直和型です。
// 新しいバリアントを追加するときは dispatcher の type switch も更新すること。
type Operation interface {
	Type() OperationType
	operation()
}

// Envelope は本文から判別子だけを先読みするための構造体です。
type Envelope struct {
	Type OperationType `json:"type" binding:"required"`
}

// DesignRequest は部屋の説明からデザインコンセプトを生成する要求です。
type DesignRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// StyleRequest は部屋の写真からスタイルを分析する要求です。
// Base64Image は data URI 接頭辞なしの base64 文字列 (JPEG 想定) です。
type StyleRequest struct {
	Base64Image string `json:"base64Image" binding:"required"`
}

// ImageRequest はテキストから画像を生成する要求です。
type ImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ChatRequest は会話履歴をそのまま転送するチャット要求です。
type ChatRequest struct {
	History []ChatTurn `json:"history" binding:"required,min=1,dive"`
}

// ChatTurn は会話の1ターンです。
type ChatTurn struct {
	Role  string     `json:"role" binding:"required,oneof=user model"`
	Parts []ChatPart `json:"parts" binding:"required,min=1,dive"`
}

// ChatPart はターン内のテキスト断片です。
type ChatPart struct {
	Text string `json:"text"`
}

func (DesignRequest) Type() OperationType { return OperationDesign }
func (StyleRequest) Type() OperationType  { return OperationStyle }
func (ImageRequest) Type() OperationType  { return OperationImage }
func (ChatRequest) Type() OperationType   { return OperationChat }

func (DesignRequest) operation() {}
func (StyleRequest) operation()  {}
func (ImageRequest) operation()  {}
func (ChatRequest) operation()   {}

// DesignConcept は design の応答です。キー名はモデルが返す JSON と一致させています。
type DesignConcept struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	TileSuggestion     string `json:"tileSuggestion"`
	BathwareSuggestion string `json:"bathwareSuggestion"`
}

// StyleAnalysis は style の応答です。
type StyleAnalysis struct {
	PrimaryStyle    string `json:"primaryStyle"`
	KeyMood         string `json:"keyMood"`
	ColorPalette    string `json:"colorPalette"`
	MaterialProfile string `json:"materialProfile"`
	Guidance        string `json:"guidance"`
}

// ImageResult は image の応答です。DataURL は常に data:image/png;base64,... 形式です。
type ImageResult struct {
	DataURL string `json:"dataUrl"`
}

// ChatReply は chat の応答です。
type ChatReply struct {
	Reply string `json:"reply"`
}

// GeneratedImage は生成された画像データとそのメタデータです。
type GeneratedImage struct {
	Data     []byte
	MimeType string
}
