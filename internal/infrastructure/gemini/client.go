package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/trialmatch/backend/internal/domain"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// GenerateMatchExplanation writes a short plain-language explanation of
// why a matched trial fits the user's profile. Falls back to a canned
// explanation when the API is unavailable so the matches view never
// breaks on upstream errors.
func (c *GeminiClient) GenerateMatchExplanation(ctx context.Context, profile *domain.UserProfile, trial *domain.Trial) (string, error) {
	prompt := fmt.Sprintf(`
		A patient matched with a clinical trial.
		Patient conditions: %s. Age: %d. Location: %s.
		Trial title: %s. Trial conditions: %s.
		Trial summary: %s

		Task: Write a short, friendly explanation (1-2 sentences) of why
		this trial may be a good fit for the patient. Do not give medical
		advice or promise eligibility.
		Output: Just the explanation text.
	`,
		strings.Join(profile.MedicalConditions, ", "),
		profile.Age,
		profile.Location,
		trial.Title,
		strings.Join(trial.Conditions, ", "),
		trial.Summary,
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return c.mockExplanation(profile, trial), nil
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return c.mockExplanation(profile, trial), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func (c *GeminiClient) mockExplanation(profile *domain.UserProfile, trial *domain.Trial) string {
	condition := "your condition"
	if len(profile.MedicalConditions) > 0 {
		condition = profile.MedicalConditions[0]
	}
	return fmt.Sprintf("%q studies %s, which matches your health profile. Review the full eligibility criteria with your doctor.", trial.Title, condition)
}
