package services

import (
	"fmt"
	"strings"
)

const identityMaxLen = 4000

// JournalInput is one raw journal block supplied with a generation request.
type JournalInput struct {
	EntryDate string `json:"entry_date"`
	Content   string `json:"content"`
}

// recentContent holds the repetition-avoidance lists mined from previously
// persisted generation summaries. Each stored summary has the shape
// "<slide 1 title>: <manifesto summary>".
type recentContent struct {
	Titles []string
	Themes []string
}

func parseRecentSummaries(summaries []string) recentContent {
	var rc recentContent
	for _, s := range summaries {
		parts := strings.SplitN(s, ":", 2)
		if len(parts) < 2 {
			continue
		}
		rc.Titles = append(rc.Titles, strings.TrimSpace(parts[0]))
		rc.Themes = append(rc.Themes, strings.TrimSpace(parts[1]))
	}
	return rc
}

func formatJournal(entries []JournalInput) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", e.EntryDate, e.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func truncateIdentity(identity string) string {
	if len(identity) > identityMaxLen {
		return identity[:identityMaxLen]
	}
	return identity
}

func buildSystemPrompt(recent recentContent) string {
	var b strings.Builder
	b.WriteString(`You are a master of creating direct, penetrating motivational content that cuts through the noise. Create content that doesn't just motivate but drives immediate action. Your output must feel like an authentic extension of the specific person it's for, but elevated to their highest potential.

You will be given two sources of truth (do not repeat verbatim). It needs to feel like the user wrote it themselves during their most brutally honest, clearest moment:
- IDENTITY: the user's values, worldview, voice, and self-description (background context)
- JOURNAL: messy, raw, unfiltered notes from the user's recent thoughts (PRIMARY SOURCE)

CRITICAL: Avoid repetition. Recent content to avoid:
- Slide 1 titles: `)
	b.WriteString(strings.Join(recent.Titles, ", "))
	b.WriteString("\n- Manifesto themes: ")
	b.WriteString(strings.Join(recent.Themes, ", "))
	b.WriteString(`

Do not repeat these titles or create similar manifesto content.

Your task is to create a personalized 2-slide motivational post that delivers maximum psychological impact through radical contrast, poetic depth, and raw authenticity. Mine the journal for psychological tensions, contradictions, and deeper truths the user is wrestling with beneath the surface, and transform them into realizations that feel authentically theirs.

SLIDE 1: A single, devastating truth that stops the scroll. Never generic motivation. Think: "What would make someone screenshot this immediately?"

SLIDE 2: A direct, conversational manifesto that expands on slide 1's concept. Short paragraphs (2-3 sentences max), mixed sentence lengths, strategic single-line paragraphs in the middle for impact, and always end with a single-line paragraph of at most 10 words. Follow hook, problem, consequences, solution, call to action. Use concrete examples and simple metaphors.

HOW TO USE THE SOURCES:
- Extract psychological tensions: what drives them, what haunts them, what they're running toward or from
- Mirror their voice but amplify its power: more distilled, more uncompromising
- Transform surface thoughts into deeper implications without reusing the literal surface elements
- Hunt for self-directed frustrations and patterns of avoidance; turn these into brutal statements

CONTENT GUIDELINES:
- Source priority: journal first; identity provides voice, context and values only
- Language: clear, direct statements, actionable insights, bold declarations
- Tone: urgent, uncompromising, directive yet inspiring
- Length: slide 1 = 5-16 words. Slide 2 = 80-120 words max (up to 140 if necessary)

VISUAL GUIDELINES:
- SLIDE 1: bold, high-impact colors and large, commanding serif typography
- SLIDE 2: strong contrast to slide 1; if slide 1 is dark, make slide 2 light, or vice versa
- Typography: serif for authority; slide 1 text large and commanding

AVOID AT ALL COSTS:
- Motivational cliches, hustle-culture phrases, feel-good platitudes, generic success language
- Em dashes; use periods, commas or semicolons instead

Goal: create content so penetrating and original that it becomes unforgettable.`)
	return b.String()
}

func buildUserPrompt(recent recentContent, identity string, journal []JournalInput) string {
	var b strings.Builder
	b.WriteString(`Generate a two-slide motivational post so penetrating and visually striking it stops the scroll immediately.

CRITICAL: Avoid repetition. Recent content to avoid:
- Slide 1 titles: `)
	b.WriteString(strings.Join(recent.Titles, ", "))
	b.WriteString("\n- Manifesto themes: ")
	b.WriteString(strings.Join(recent.Themes, ", "))
	b.WriteString("\n\nDo not repeat these titles or create similar manifesto content.\n\n")

	b.WriteString("IDENTITY (reference, do not repeat verbatim, background and values context only):\n\"\"\"")
	b.WriteString(truncateIdentity(identity))
	b.WriteString("\"\"\"\n\n")

	b.WriteString("JOURNAL (PRIMARY SOURCE - mine for psychological tensions and deeper implications):\n\"\"\"")
	b.WriteString(formatJournal(journal))
	b.WriteString("\"\"\"\n\n")

	b.WriteString(`SLIDE 1: An impactful, eye-catching statement in the 'title' field, typically 5-16 words. Can use line breaks for dramatic effect. Center alignment and massive typography (text-5xl or larger).

SLIDE 2: TITLE (3-6 words, 'title' field) introducing the manifesto concept, text-xl to text-3xl; never use generic words like 'manifesto', 'philosophy', 'truth'. BODY ('body' field): 80-120 words max (up to 140 if necessary), 3-5 short paragraphs separated by double line breaks, left-aligned, text-base or text-lg. Always end with a single-line paragraph of at most 10 words.

Visual Design Requirements:
- CRITICAL COLOR RULE: colors must be completely swapped between slides. If slide 1 has background color X and text color Y, slide 2 MUST have background color Y and text color X.
- Typography: serif fonts on both slides; clear hierarchy from massive slide 1 to medium slide 2 title to readable body.

CRITICAL: Avoid em dashes completely. Use periods, commas or semicolons instead.

Return structured content per the expected schema with natural paragraph formatting in the body text.`)
	return b.String()
}
