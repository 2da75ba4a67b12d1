// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ai wraps the OpenRouter chat completions API for the game's
generation needs: result names for element combinations, SVG icons,
and bulk recipe suggestions.

# Client

	client := ai.NewClient(apiKey, url, textModel, iconModel)

Each operation is one outbound POST with a single user-role prompt.
No streaming, no function calling, no caching. A missing API key or a
non-2xx response fails the operation.

# Result Names

	name, err := client.GenerateResultName("Earth", "Water", recipes, names)

The prompt is seeded with the full recipe and element listings to bias
the model toward reusing existing elements. The model may answer
ai.NoResult ("NO RESULT"), which is a valid terminal outcome. Names
over 30 characters are retried up to 3 times, then collapse to
ai.NoResult.

# Icons

	svg, err := client.GenerateIcon("Steam")
	svg, err := client.RegenerateIcon("Steam", oldSVG, "more clouds")

Responses are stripped of markdown fences and reduced to the first
well-formed <svg> tag; failing that, the call returns ErrInvalidSVG.
Icons use viewBox-only sizing so they scale to a square frame.

# Suggestions

	suggestions, err := client.SuggestRecipes(recipes)

Asks for a batch of new "A + B = C" lines and parses them
defensively: malformed lines are dropped, not errors.
*/
package ai
