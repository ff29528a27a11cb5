// Package generate drives page generation for the configured API surfaces.
//
// A surface is processed in three steps. Its specification document is loaded
// (a failure aborts the run), every operation is folded into a plan of page
// descriptors and soft skips, and the plan is checked for page path
// collisions before any file is written. Surfaces run one after another.
package generate
