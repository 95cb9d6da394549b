package ui

const Banner = `
  ___ ___ ___   _
 / __/ __| _ \ (_)_____ _  _ ___ ___
| (__\__ \  _/ | (_-<_-< || / -_|_-<
 \___|___/_|   |_/__/__/\_,_\___/__/
`

const (
	ColorReset  = "\033[0m"
	ColorGray   = "\033[90m" // Light gray
	ColorWhite  = "\033[97m" // White
	ColorRed    = "\033[91m" // Bright Red
	ColorGreen  = "\033[92m" // Bright Green
	ColorYellow = "\033[93m" // Bright Yellow

	ColorInfo   = "\033[37m" // White/Light Gray for Information
	ColorLow    = "\033[34m" // Blue for Low
	ColorMedium = "\033[33m" // Yellow/Orange for Medium
	ColorHigh   = "\033[31m" // Red for High
)
