// Package votingengine implements the vote admission and integrity engine
// inside the polling context.
//
// The module owns the single write path that turns a credential (an
// authenticated voter account or a single-use vote link) into at most one
// admitted vote per poll, plus the closed-poll results read. Poll, choice,
// and vote-link records are projections owned by the admin CRUD and
// invitation collaborators. Business rules live in application/domain
// layers; infrastructure concerns stay behind ports and adapters.
package votingengine
