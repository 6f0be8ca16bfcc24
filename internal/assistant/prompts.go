package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/examprep/cbt/internal/llm"
	"github.com/examprep/cbt/internal/questionbank"
)

// SystemPrompt sets the assistant up as a JAMB tutor.
const SystemPrompt = `You are an educational AI assistant for a JAMB CBT (Computer-Based Test) practice application. Your role is to help Nigerian students prepare for their JAMB UTME examinations.

Your responsibilities:
1. Explain concepts from JAMB subjects (English, Mathematics, Physics, Chemistry, Biology, Literature, Government, Commerce, Accounting, Economics, CRK, IRK, Geography, Agricultural Science, History)
2. Help students understand difficult topics and questions
3. Provide clear, concise explanations suitable for secondary school students
4. Give study tips and exam strategies
5. Break down complex problems step by step
6. Relate concepts to everyday examples students can understand

Guidelines:
- Keep explanations clear and educational
- Use simple language appropriate for Nigerian secondary school students
- When explaining math/physics, show step-by-step solutions
- Encourage students and be supportive
- Focus only on educational content related to JAMB subjects
- If asked about non-educational topics, politely redirect to study-related matters
- Be culturally aware and use examples relevant to Nigerian students

Remember: You are here to help students learn and succeed in their JAMB examinations.`

func (s *Service) askText(ctx context.Context, prompt, subject string) (string, error) {
	r, err := s.Ask(ctx, AskInput{Prompt: prompt, Subject: subject})
	return r.Text, err
}

// ExplainQuestion explains why the question's answer is correct.
func (s *Service) ExplainQuestion(ctx context.Context, q questionbank.Question) (string, error) {
	var opts []string
	for _, letter := range questionbank.OptionLetters {
		if text := q.Options[letter]; text != "" {
			opts = append(opts, strings.ToUpper(letter)+": "+text)
		}
	}
	answer := strings.ToUpper(q.Answer)

	// Cached answers are keyed on the start of the prompt, so the question
	// text leads.
	prompt := fmt.Sprintf(`Question: %s

Options:
%s

Correct Answer: %s

Please explain this JAMB %s question and why option "%s" is the correct answer. Provide:
1. A clear explanation of the concept being tested
2. Why the correct answer is right
3. Brief explanation of why other options are wrong
4. Any tips for remembering this type of question`, q.Text, strings.Join(opts, "\n"), answer, q.Subject, answer)

	return s.askText(ctx, prompt, q.Subject)
}

// StudyTips asks for exam preparation tips for subject.
func (s *Service) StudyTips(ctx context.Context, subject string) (string, error) {
	prompt := fmt.Sprintf("Give me 5 effective study tips specifically for preparing for JAMB %s. "+
		"Include practical advice that Nigerian students can apply immediately.", subject)
	return s.askText(ctx, prompt, subject)
}

// ClarifyTopic asks for a student-level explanation of a topic.
func (s *Service) ClarifyTopic(ctx context.Context, topic, subject string) (string, error) {
	prompt := fmt.Sprintf(`Please explain the topic "%s" in %s in a way that a Nigerian secondary school `+
		"student preparing for JAMB would understand. Include examples where possible.", topic, subject)
	return s.askText(ctx, prompt, subject)
}

// AnalyzeImage asks about an image, such as a photographed question or
// diagram. An empty question asks for a general explanation.
func (s *Service) AnalyzeImage(ctx context.Context, img llm.Image, question, subject string) (string, error) {
	if question == "" {
		question = "Please analyze this image. If it contains a question, solve it step by step; " +
			"otherwise explain what it shows and how it relates to the JAMB syllabus."
	}
	r, err := s.Ask(ctx, AskInput{Prompt: question, Subject: subject, Image: &img})
	return r.Text, err
}
