package exchange

// importSchema is the minimal shape an import must have before it is
// decoded: decks and cards present and arrays. sessions may be missing or
// null.
const importSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["decks", "cards"],
  "properties": {
    "decks": {"type": "array", "items": {"type": "object"}},
    "cards": {"type": "array", "items": {"type": "object"}},
    "sessions": {"type": ["array", "null"], "items": {"type": "object"}},
    "activeDeckId": {"type": ["string", "null"]}
  }
}`
