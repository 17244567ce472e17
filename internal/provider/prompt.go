package provider

import (
	"fmt"
	"strings"

	"stockmeta/internal/metadata"
)

const promptTemplate = `You are an expert in image SEO for stock photo agencies. Your complete task is to analyze the provided image and perform four actions: generate a title, a description, a list of keywords, and select a category ID.

**1. Title:**
- Create a concise, descriptive title in natural language (around 75 characters).

**2. Description:**
- Write a descriptive sentence for the image, up to 160 characters long. This should expand on the title.

**3. Keywords:**
- Provide 40 to 49 precise keywords, ordered by importance.
- Include literal terms (what is seen) and conceptual terms (feelings, trends).

**4. Category Selection:**
- Based on the image, title, and keywords, select the most appropriate category ID from the list below.
- **Category List:** {%s}

**MANDATORY OUTPUT FORMAT:**
Respond ONLY with the following XML format, with no other text before or after.

<METADATA>
    <TITLE>
    [Your title here]
    </TITLE>
    <DESCRIPTION>
    [Your description here, up to 160 characters]
    </DESCRIPTION>
    <KEYWORDS>
    [keyword1], [keyword2], [keyword3], ...
    </KEYWORDS>
    <CATEGORY_ID>
    [The single numeric ID here]
    </CATEGORY_ID>
</METADATA>
`

// userText accompanies the image for backends that take a user turn.
const userText = "Analyze this image and respond in the mandatory format."

var systemPrompt = buildPrompt()

// Prompt returns the fixed system instruction sent with every image.
func Prompt() string {
	return systemPrompt
}

func buildPrompt() string {
	entries := make([]string, 0, len(metadata.Categories()))
	for _, c := range metadata.Categories() {
		entries = append(entries, fmt.Sprintf("%d: '%s'", c.ID, c.Name))
	}
	return strings.TrimSpace(fmt.Sprintf(promptTemplate, strings.Join(entries, ", ")))
}
