/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package parser contains the lexer, the parser and the AST of the Leaf
language.

Leaf programs are a list of statements which are separated by newlines or
semicolons. Blocks are delimited by a run of leading pipe characters whose
length must equal the nesting depth of the block:

	i << 0
	while (i < 3), loop
	| if (i = 1), then
	| | show['one']
	| endif
	| i << i + 1
	endloop
*/
package parser

/*
LexTokenID represents a unique lexer token ID
*/
type LexTokenID int

/*
Available lexer token types
*/
const (
	TokenError LexTokenID = iota // Lexing error token with a message as val
	TokenEOF                     // End-of-file token

	TokenNEWLINE    // Statement terminator (newline or semicolon)
	TokenPIPE       // Run of pipes which marks the block depth
	TokenNUMBER     // Number literal
	TokenSTRING     // String literal
	TokenIDENTIFIER // Name of a variable, function or attribute

	TOKENodeSYMBOLS // Used to separate symbols from other tokens in this list

	TokenCOMMA
	TokenASSIGN
	TokenRANGE
	TokenTILDE
	TokenDOT
	TokenCOLON
	TokenEQ
	TokenNEQ
	TokenGEQ
	TokenLEQ
	TokenGT
	TokenLT
	TokenPLUS
	TokenMINUS
	TokenTIMES
	TokenDIV
	TokenDIVINT
	TokenPOW
	TokenMOD
	TokenLPAREN
	TokenRPAREN
	TokenLBRACK
	TokenRBRACK

	TOKENodeKEYWORDS // Used to separate keywords from other tokens in this list

	TokenIF
	TokenTHEN
	TokenELSE
	TokenENDIF
	TokenWHILE
	TokenUNTIL
	TokenLOOP
	TokenENDLOOP
	TokenFOR
	TokenIN
	TokenFUNCTION
	TokenENDFUNCTION
	TokenDO
	TokenRETURN
	TokenNEXT
	TokenBREAK
	TokenTRUE
	TokenFALSE
	TokenNONE

	// Type names are keywords which can also be used as names

	TokenSTRINGTYPE
	TokenNUMBERTYPE
	TokenLISTTYPE
	TokenBOOLEANTYPE
)

/*
KeywordMap is the map of reserved words
*/
var KeywordMap = map[string]LexTokenID{
	"if":          TokenIF,
	"then":        TokenTHEN,
	"else":        TokenELSE,
	"endif":       TokenENDIF,
	"while":       TokenWHILE,
	"until":       TokenUNTIL,
	"loop":        TokenLOOP,
	"endloop":     TokenENDLOOP,
	"for":         TokenFOR,
	"in":          TokenIN,
	"function":    TokenFUNCTION,
	"endfunction": TokenENDFUNCTION,
	"do":          TokenDO,
	"return":      TokenRETURN,
	"next":        TokenNEXT,
	"break":       TokenBREAK,
	"true":        TokenTRUE,
	"false":       TokenFALSE,
	"none":        TokenNONE,

	"String":  TokenSTRINGTYPE,
	"Number":  TokenNUMBERTYPE,
	"List":    TokenLISTTYPE,
	"Boolean": TokenBOOLEANTYPE,
}

/*
SymbolMap is the map of special symbols
*/
var SymbolMap = map[string]LexTokenID{
	",":  TokenCOMMA,
	"<<": TokenASSIGN,
	">>": TokenRANGE,
	"~":  TokenTILDE,
	".":  TokenDOT,
	":":  TokenCOLON,
	"=":  TokenEQ,
	"!":  TokenNEQ,
	"!=": TokenNEQ,
	">=": TokenGEQ,
	"<=": TokenLEQ,
	">":  TokenGT,
	"<":  TokenLT,
	"+":  TokenPLUS,
	"-":  TokenMINUS,
	"*":  TokenTIMES,
	"/":  TokenDIV,
	"//": TokenDIVINT,
	"**": TokenPOW,
	"%":  TokenMOD,
	"(":  TokenLPAREN,
	")":  TokenRPAREN,
	"[":  TokenLBRACK,
	"]":  TokenRBRACK,
}

/*
IsName returns true if a token of the given ID can be used as a name.
*/
func IsName(id LexTokenID) bool {
	return id == TokenIDENTIFIER || (id >= TokenSTRINGTYPE && id <= TokenBOOLEANTYPE)
}

// Parser AST nodes
// ================

/*
Available parser AST node names
*/
const (
	NodeSTATEMENTS = "statements"
	NodeEMPTY      = "empty"

	// Literals and names

	NodeNUMBER     = "number"
	NodeSTRING     = "string"
	NodeTRUE       = "true"
	NodeFALSE      = "false"
	NodeNONE       = "none"
	NodeLIST       = "list"
	NodeIDENTIFIER = "identifier"
	NodeATTRIBUTE  = "attribute"
	NodeUNPACK     = "unpack"
	NodeCALL       = "call"
	NodeMODIFIER   = "modifier"
	NodeFLAG       = "flag"

	// Operators

	NodePLUS   = "plus"
	NodeMINUS  = "minus"
	NodeTIMES  = "times"
	NodeDIV    = "div"
	NodeDIVINT = "divint"
	NodeMOD    = "mod"
	NodePOW    = "pow"
	NodeEQ     = "="
	NodeNEQ    = "!="
	NodeGEQ    = ">="
	NodeLEQ    = "<="
	NodeGT     = ">"
	NodeLT     = "<"

	// Statements

	NodeASSIGN      = "assign"
	NodeMULTIASSIGN = "multiassign"
	NodeIF          = "if"
	NodeWHILE       = "while"
	NodeUNTIL       = "until"
	NodeFOR         = "for"
	NodeFUNCTION    = "function"
	NodeRETURN      = "return"
	NodeNEXT        = "next"
	NodeBREAK       = "break"
)
