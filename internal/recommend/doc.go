// Package recommend turns the penalty factors of a scored scan into curated
// remediation advice.
//
// Generation is a fixed sequence of blocks, each watching a set of penalty
// kinds. A block emits at most one entry no matter how many of its kinds
// fired, and the entries carry stable curated copy: category, title,
// description and further-reading links. Nothing here is persisted; the
// generator reruns over the stored penalty list every time a result is
// displayed, so copy edits reach old scans too.
package recommend
