package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/holocron/internal/store"
	"github.com/rshade/holocron/internal/swapi"
)

// NoResultMessage is printed when a search yields nothing.
const NoResultMessage = "The force is not strong within you"

// UnknownHomeworldMessage replaces the ratio line when it cannot be computed.
const UnknownHomeworldMessage = "The force is not strong within you: Unknown homeworld"

const homeworldRule = "----------------"

//nolint:gochecknoglobals // Printer is safe to share; building one per call is wasteful.
var printer = message.NewPrinter(language.English)

// RenderCharacter renders one "Label: value" line per dictionary attribute the
// character carries, in dictionary order. The homeworld is not rendered here;
// see RenderHomeworld.
func RenderCharacter(c swapi.Character, labels store.LabelSet) string {
	var b strings.Builder
	for _, a := range labels.Attributes() {
		if a.Name == "homeworld" {
			continue
		}
		v, ok := c.Attributes[a.Name]
		if !ok {
			continue
		}
		b.WriteString(LabelStyle.Render(a.Label + ":"))
		b.WriteString(" ")
		b.WriteString(ValueStyle.Render(v))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHomeworld renders the homeworld block: name, population and the
// earth-relative ratios, or UnknownHomeworldMessage when either ratio is unknown.
func RenderHomeworld(c swapi.Character, worldLabels store.LabelSet) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render("Homeworld"))
	b.WriteString("\n")
	b.WriteString(homeworldRule)
	b.WriteString("\n")

	w := c.Homeworld
	if w == nil {
		b.WriteString(UnknownHomeworldMessage)
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(worldLabels.Label("name")+":"), ValueStyle.Render(w.Name()))
	fmt.Fprintf(&b, "%s %s\n",
		LabelStyle.Render(worldLabels.Label("population")+":"),
		ValueStyle.Render(FormatPopulation(w.Attr("population"))))
	b.WriteString("\n")

	if !w.ToEarthYears.Known || !w.ToEarthDays.Known {
		b.WriteString(UnknownHomeworldMessage)
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "On %s, 1 year lasts %s Earth years and 1 day lasts %s Earth days\n",
		w.Name(), w.ToEarthYears, w.ToEarthDays)
	return b.String()
}

// RenderCachedNotice renders the line shown under results served from the cache.
func RenderCachedNotice(cachedAt time.Time) string {
	return InfoStyle.Render("cached: " + store.FormatDisplay(cachedAt))
}

// FormatPopulation groups digits of an integer population ("200000" becomes
// "200,000"). Other values, such as "unknown", are returned unchanged.
func FormatPopulation(raw string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}
	return printer.Sprintf("%d", n)
}
