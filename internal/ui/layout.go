package ui

// Rows taken by everything except the log lines: header, status bar and the
// pane's top and bottom border.
const chromeRows = 4

// Terminal width below which the header and status bar drop optional parts.
const LayoutCompactWidth = 100

// gutterWidth is the rendered width of the line-number column ("%6d │ ").
const gutterWidth = 9
