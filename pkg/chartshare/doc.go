// Package chartshare models the chart content core of a rhythm-game
// level-sharing platform.
//
// It exposes a single Service interface that resolves a chart's attached
// assets into fixed semantic slots, gates field exposure by visibility state,
// serializes charts into the internal front-end view and the external Sonolus
// wire envelope, and serves a randomized, cache-backed discovery feed of
// eligible chart identifiers. Implementations of the entity store (memory,
// Postgres) and the discovery cache (memory, Redis) are provided under
// subpackages.
//
// Serializers and resolvers are pure reads over their inputs and safe for
// concurrent use. The discovery cache tolerates bounded staleness: pools are
// refreshed per TTL, and racing refreshes after expiry are last-writer-wins.
package chartshare
