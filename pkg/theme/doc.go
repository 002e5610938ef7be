/*
Package theme implements a small template inheritance and rendering engine
for Tera-style theme templates. Given a named template and a flat set of
named values, it resolves layout inheritance (extends/block), file inclusion
(include) and variable interpolation into a final text document.

The engine is deliberately narrow: no expression evaluation, no loops or
conditionals, no whitespace control and no caching. Rendering is a strict
four-stage pipeline over full text (inheritance, includes, variables, strip),
and every render re-reads its templates from the Provider so on-disk edits
are visible immediately. Anything the pipeline cannot resolve is stripped
from the output rather than surfaced as an error; only a missing top-level
template is reported to the caller.

Two configuration flags select between the legacy engine quirks and their
stricter counterparts, see Config.
*/
package theme
