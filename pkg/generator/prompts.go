package generator

import (
	"fmt"

	"google.golang.org/genai"
)

const (
	// ContactHiddenMarker はフロントエンドが連絡先をマスクしたときに差し込む目印です。
	ContactHiddenMarker = "[CONTACT INFO HIDDEN]"
	// ContactHiddenReply は目印を見たときにモデルが必ず返す定型文です。
	ContactHiddenReply = "Thank you for providing your details. I've passed them to our team securely, and an expert will contact you shortly."

	styleUserText = "Analyze this room's style."
)

const designSystemPrompt = `You are a world-class interior designer for a luxury tile and bathware brand called GTSS. A customer will describe a room. Your task is to generate a concise, inspiring design concept based on their description.

Rules:
- The response MUST be in JSON format.
- The JSON schema MUST be: { "title": "string", "description": "string", "tileSuggestion": "string", "bathwareSuggestion": "string" }
- The suggestions MUST be general types of products (e.g., "Large format matte black porcelain tiles"), not specific GTSS product names.
- The tone should be elegant, professional, and inspiring.
- Crucially, write in simple, conversational English.
- Keep the description to 2-3 sentences.`

const styleSystemPrompt = `You are a professional interior design analyst for a luxury brand, GTSS. Analyze the provided image of a room and deconstruct its style.

Rules:
- The response MUST be in JSON format.
- The JSON schema MUST be: { "primaryStyle": "string", "keyMood": "string", "colorPalette": "string", "materialProfile": "string", "guidance": "string" }
- The tone should be expert, insightful, and helpful.
- The guidance should be a general statement about how to achieve this look with types of tiles and bathware, without mentioning specific product names.
- Write in simple, conversational English.`

var chatSystemPrompt = fmt.Sprintf(`You are a friendly and professional AI Design Assistant for GTSS, a luxury tile and bathware company.

Tasks:
1) Answer questions about product types, design trends, and company history.
2) If a user wants to book a visit, ask for their name and phone number.
3) If you see '%s' in the user's message, your response MUST be: '%s'
4) Keep answers concise and helpful. Do NOT recommend specific product names.
5) Write in simple, conversational English.`, ContactHiddenMarker, ContactHiddenReply)

// designUserText はユーザーの自由記述をプロンプトに埋め込みます。
func designUserText(prompt string) string {
	return fmt.Sprintf(`User prompt: "%s"`, prompt)
}

// systemInstruction はシステムプロンプトを genai.Content に変換します。
func systemInstruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// objectSchema は必須の文字列プロパティだけを持つ OBJECT スキーマを作ります。
func objectSchema(keys ...string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(keys))
	for _, k := range keys {
		props[k] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   keys,
	}
}

var (
	designSchema = objectSchema("title", "description", "tileSuggestion", "bathwareSuggestion")
	styleSchema  = objectSchema("primaryStyle", "keyMood", "colorPalette", "materialProfile", "guidance")
)

// 以下は JSONFallback 有効時に使う既定値です。
const (
	fallbackDesignTitle    = "Design Concept"
	fallbackDesignTile     = "Porcelain tiles"
	fallbackDesignBathware = "Modern fixtures"

	fallbackStylePrimary  = "Modern"
	fallbackStyleMood     = "Calm"
	fallbackStylePalette  = "Neutrals"
	fallbackStyleMaterial = "Porcelain + wood"
	fallbackStyleGuidance = "Use warm neutrals and clean lines."

	fallbackChatReply = "I'm here to help with tiles and bathware!"
)
