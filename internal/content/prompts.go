package content

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	ArtistSystem = "You are an art expert. Reply with only an artist name."

	JokePrompt   = "Tell me a clever, family-friendly joke. Preferably with British humor. Keep it short."
	FallbackJoke = "What do you call a bear with no teeth? A gummy bear!"

	FallbackWordText    = "Word: Serendipity - A happy accident or pleasant surprise"
	FallbackWord        = "Serendipity"
	FallbackWordSubject = "Abstract concept of serendipity"

	// FailedMarker flags content that must not be illustrated.
	FailedMarker = "[GENERATION FAILED]"

	maxArtistLen = 40
)

var fallbackArtists = []string{
	"Monet", "Van Gogh", "Hokusai", "Picasso", "Dalí", "Warhol",
	"Banksy", "Kahlo", "Basquiat", "Hockney", "Klimt", "Munch",
}

// ArtistPrompt asks for one artist suited to subject.
func ArtistPrompt(subject string) string {
	return fmt.Sprintf(
		"Based on this content: '%s...', "+
			"choose ONE famous artist (painter, illustrator, or visual artist from any era or culture) "+
			"whose style would best suit illustrating this concept. "+
			"Consider artists from all movements: Renaissance, Impressionism, Surrealism, Pop Art, "+
			"Japanese Ukiyo-e, Abstract Expressionism, Art Nouveau, Bauhaus, Street Art, Digital Art, etc. "+
			"Reply with ONLY the artist's name, nothing else.",
		truncateRunes(subject, 100))
}

// ImagePrompt builds the illustration prompt in the given artist's style.
func ImagePrompt(artist, subject string) string {
	return fmt.Sprintf(
		"Create an artistic illustration in the distinctive style of %[1]s. "+
			"Subject: '%[2]s'. "+
			"The image should clearly reflect %[1]s's unique artistic style, techniques, and color palette. "+
			"If %[1]s is known for specific techniques (pointillism, cubism, etc), use them. "+
			"No text or words in the image. Family-friendly content.",
		artist, subject)
}

// NormalizeArtist accepts the model's answer or picks a fallback when the
// reply is empty or too long to be a name.
func NormalizeArtist(reply string, rng *rand.Rand) string {
	a := strings.Trim(strings.TrimSpace(reply), ".\"'")
	if a != "" && len([]rune(a)) <= maxArtistLen {
		return a
	}
	if rng == nil {
		return fallbackArtists[rand.IntN(len(fallbackArtists))]
	}
	return fallbackArtists[rng.IntN(len(fallbackArtists))]
}

// FallbackArtists returns a copy of the built-in artist list.
func FallbackArtists() []string {
	return append([]string(nil), fallbackArtists...)
}

// ExtractWord pulls the word out of "Word: <word> - <definition>".
func ExtractWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return FallbackWord
	}
	w := strings.Trim(fields[1], " -:,.;\"'*")
	if w == "" {
		return FallbackWord
	}
	return w
}

// Illustratable reports whether generated text may be sent to the image model.
func Illustratable(text string) bool {
	return strings.TrimSpace(text) != "" && !strings.Contains(text, FailedMarker)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
