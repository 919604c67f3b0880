// Package directory provides the voter identity store that sessions consult.
//
// IdentityDirectory has three operations:
//   - Find returns every record whose voter id, national id and phone all match
//   - GetByID fetches one record, or ErrNotFound
//   - UpdateByID merges a VoterPatch and returns the updated record
//
// has_voted is monotonic: once true, any patch touching it fails with
// ErrAlreadyVoted. MemoryDirectory enforces this under its lock and
// SQLDirectory with a guarded UPDATE, so two sessions racing to vote for the
// same person record exactly one vote.
//
// GenerateVoters produces seeded mock voters for demo mode.
package directory
