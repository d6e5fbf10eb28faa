// Package score turns a scan's normalized signals into the two headline
// numbers: the anonymity score and the legitimacy score.
//
// Both scorers are pure functions over their inputs, start at 100 and only
// ever subtract. The anonymity score punishes exposure: leaks, trackable
// surfaces, weak transport. The legitimacy score looks at the same profile
// from the opposite direction and punishes whatever makes a visitor look
// automated or deliberately hidden. The two disagree on purpose; enabling
// Do Not Track, for instance, helps anonymity and hurts legitimacy.
//
// Every deduction is itemized so callers can show why a score is what it
// is. Rule order is fixed and factor order follows rule order.
package score
