package pianoroll

import "fmt"

// Key describes one of the 128 keys of the piano keyboard.
type Key struct {
	Number  int
	Name    string // e.g. "C# 3"; octave -2 starts at key 0
	IsBlack bool
}

var keyNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var blackKeys = [12]bool{1: true, 3: true, 6: true, 8: true, 10: true}

// Keys lists every key from 0 to 127.
var Keys [NumKeys]Key

func init() {
	for i := range Keys {
		Keys[i] = Key{Number: i, Name: KeyName(i), IsBlack: IsBlackKey(i)}
	}
}

// KeyName returns the name of the key with an octave number, e.g. "C -2" for
// key 0 and "C 3" for middle C (60).
func KeyName(number int) string {
	return fmt.Sprintf("%s %d", keyNames[mod(number, 12)], floorDiv(number, 12)-2)
}

// IsBlackKey reports if the key is one of the sharps.
func IsBlackKey(number int) bool {
	return blackKeys[mod(number, 12)]
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		return m + b
	}
	return m
}

func floorDiv(a, b int) int {
	if a < 0 && a%b != 0 {
		return a/b - 1
	}
	return a / b
}
