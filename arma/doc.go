// Package arma decodes the class/array configuration format used by engine
// tooling (config.cpp, description.ext, mission.sqm headers) directly into Go
// values.
//
// A document is a sequence of semicolon-terminated statements:
//
//	version = 12;
//	addons[] = {"A3_Characters_F", "A3_Map_Stratis"};
//	class Header
//	{
//		gameType = "Coop";
//		maxPlayers = 4;
//	};
//
// Strings are quoted with '"'. A doubled quote inside a string is a literal
// quote, and two strings joined by the marker " \n " form one string with an
// embedded newline:
//
//	text = "first line" \n "second line";
//
// # Decoding
//
// Unmarshal, UnmarshalString and Decoder.Decode map the document onto Go types
// with reflection. The decoder never builds an intermediate tree; the Go type
// tells it which grammar rule applies at each position.
//
// Callers that need a different target can implement Visitor and drive it with
// DecodeString or Decoder.DecodeValue. A Visitor declares the Shape it expects
// for every nested value. ShapeAny selects the rule from the next input
// character instead, which is how interface{} targets and transcoders work.
//
// Errors wrap one of the Err* sentinels and can be tested with errors.Is.
package arma
