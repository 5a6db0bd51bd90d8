/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package parser

import (
	"fmt"

	"devt.de/krotik/leaf/util"
	"github.com/shopspring/decimal"
)

/*
Map of binary operator tokens to AST node names
*/
var binaryOps = map[LexTokenID]string{
	TokenEQ:     NodeEQ,
	TokenNEQ:    NodeNEQ,
	TokenGEQ:    NodeGEQ,
	TokenLEQ:    NodeLEQ,
	TokenGT:     NodeGT,
	TokenLT:     NodeLT,
	TokenPLUS:   NodePLUS,
	TokenMINUS:  NodeMINUS,
	TokenTIMES:  NodeTIMES,
	TokenDIV:    NodeDIV,
	TokenDIVINT: NodeDIVINT,
	TokenMOD:    NodeMOD,
	TokenPOW:    NodePOW,
}

/*
Operator groups from lowest to highest precedence
*/
var (
	comparisonOps     = []LexTokenID{TokenEQ, TokenNEQ, TokenGEQ, TokenLEQ, TokenGT, TokenLT}
	additionOps       = []LexTokenID{TokenPLUS, TokenMINUS}
	multiplicationOps = []LexTokenID{TokenTIMES, TokenDIV, TokenDIVINT, TokenMOD}
)

/*
MaxNesting is the maximum nesting level of statements and expressions.
*/
const MaxNesting = 2000

/*
Parser data structure
*/
type parser struct {
	name        string     // Name to identify the input
	lexer       *Lexer     // Lexer which produces the tokens
	tokens      []LexToken // Tokens which were read ahead
	indentation int        // Current block depth
	nesting     int        // Current nesting level of grammar rules
}

/*
Parse parses a given input string and returns an AST.
*/
func Parse(name string, input string) (*StatementList, error) {
	p := &parser{name: name, lexer: Lex(name, input)}

	res, err := p.statementList()

	if err == nil {
		if t := p.peek(0); t.ID != TokenEOF {
			err = p.unexpected(t)
		}
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}

// Token handling
// ==============

/*
peek returns a token of the input without consuming it. The offset 0 is the
current token.
*/
func (p *parser) peek(offset int) LexToken {
	for len(p.tokens) <= offset {
		p.tokens = append(p.tokens, p.lexer.NextToken())
	}

	return p.tokens[offset]
}

/*
next consumes the current token.
*/
func (p *parser) next() LexToken {
	t := p.peek(0)
	p.tokens = p.tokens[1:]
	return t
}

/*
is checks if the current token has a given ID.
*/
func (p *parser) is(id LexTokenID) bool {
	return p.peek(0).ID == id
}

/*
isOneOf checks if the current token has one of the given IDs.
*/
func (p *parser) isOneOf(ids []LexTokenID) bool {
	for _, id := range ids {
		if p.is(id) {
			return true
		}
	}
	return false
}

/*
consume consumes the current token if it has the given ID. An error is
returned otherwise.
*/
func (p *parser) consume(id LexTokenID) (LexToken, error) {
	if t := p.peek(0); t.ID != id {
		return t, p.unexpected(t)
	}

	return p.next(), nil
}

/*
consumeName consumes a token which can be used as a name.
*/
func (p *parser) consumeName() (string, error) {
	if t := p.peek(0); !IsName(t.ID) {
		return "", p.unexpected(t)
	}

	return p.next().Val, nil
}

/*
consumePipe consumes a pipe token which must mark exactly the given depth.
*/
func (p *parser) consumePipe(depth int) error {
	t := p.peek(0)

	if t.ID != TokenPIPE {
		if t.ID == TokenError {
			return p.unexpected(t)
		}
		return p.newParserError(util.ErrSyntaxError,
			fmt.Sprintf("Expected block depth %v but found %v", depth, t), t)
	}

	if len(t.Val) != depth {
		return p.newParserError(util.ErrSyntaxError,
			fmt.Sprintf("Expected block depth %v but found %v pipes", depth, len(t.Val)), t)
	}

	p.next()

	return nil
}

/*
enter increases the nesting level before a recursive grammar rule is
parsed. Every successful call must be followed by a call to leave.
*/
func (p *parser) enter() error {
	if p.nesting >= MaxNesting {
		return p.newParserError(util.ErrRecursionError,
			fmt.Sprintf("Maximum nesting depth of %v exceeded", MaxNesting), p.peek(0))
	}

	p.nesting++

	return nil
}

/*
leave decreases the nesting level after a recursive grammar rule was parsed.
*/
func (p *parser) leave() {
	p.nesting--
}

/*
skipNewlines consumes all newline tokens at the current position.
*/
func (p *parser) skipNewlines() {
	for p.is(TokenNEWLINE) {
		p.next()
	}
}

/*
unexpected creates an error for an unexpected token.
*/
func (p *parser) unexpected(t LexToken) error {

	switch t.ID {

	case TokenError:
		return p.newParserError(util.ErrLexError, t.Val, t)

	case TokenEOF:
		return p.newParserError(util.ErrSyntaxError, "Unexpected end of input", t)
	}

	return p.newParserError(util.ErrSyntaxError, fmt.Sprintf("Unexpected token %v", t), t)
}

// Statements
// ==========

/*
statementList parses statements which are separated by newlines.
*/
func (p *parser) statementList() (*StatementList, error) {
	res := &StatementList{node: node{p.peek(0)}}

	for {
		stmt, err := p.statement()

		if err != nil {
			return nil, err
		}

		if stmt != nil {
			res.Statements = append(res.Statements, stmt)
		}

		if !p.is(TokenNEWLINE) {
			break
		}

		p.next()
	}

	return res, nil
}

/*
indentedBlock parses a block of statements. Every line of the block must
start with a run of pipes whose length equals the depth of the block.
*/
func (p *parser) indentedBlock() (*StatementList, error) {
	p.indentation++

	res := &StatementList{node: node{p.peek(0)}}

	for first := true; first || (p.is(TokenPIPE) && len(p.peek(0).Val) == p.indentation); first = false {

		if err := p.consumePipe(p.indentation); err != nil {
			return nil, err
		}

		stmt, err := p.statement()

		if err != nil {
			return nil, err
		}

		if stmt == nil {
			stmt = &Empty{node{p.peek(0)}}
		}

		res.Statements = append(res.Statements, stmt)

		if _, err := p.consume(TokenNEWLINE); err != nil {
			return nil, err
		}
	}

	p.indentation--

	// The line which closes the block belongs to the enclosing block

	if p.indentation > 0 {
		if err := p.consumePipe(p.indentation); err != nil {
			return nil, err
		}
	}

	return res, nil
}

/*
statement parses a single statement. Returns nil if there is no statement
at the current position.
*/
func (p *parser) statement() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.peek(0)

	switch t.ID {

	case TokenIF:
		return p.ifStatement()

	case TokenWHILE, TokenUNTIL:
		return p.conditionLoop()

	case TokenFOR:
		return p.forLoop()

	case TokenFUNCTION:
		return p.functionDefinition()

	case TokenRETURN:
		return p.returnStatement()

	case TokenNEXT:
		return &LoopControl{node{p.next()}, LoopNext}, nil

	case TokenBREAK:
		return &LoopControl{node{p.next()}, LoopBreak}, nil
	}

	if IsName(t.ID) && p.peek(1).ID == TokenASSIGN {
		return p.assign()
	}

	if (IsName(t.ID) && p.peek(1).ID == TokenCOMMA) ||
		(t.ID == TokenCOLON && IsName(p.peek(1).ID) &&
			(p.peek(2).ID == TokenCOMMA || p.peek(2).ID == TokenASSIGN)) {

		return p.multipleAssign()
	}

	if isExpressionStart(t.ID) {
		expr, err := p.expression()

		if err == nil && p.is(TokenASSIGN) {

			// Assignment to an attribute

			if _, ok := expr.(*AttributeAccess); ok {
				var val Node

				tok := p.next()

				if val, err = p.expression(); err == nil {
					return &Assign{node{tok}, expr, val}, nil
				}

			} else {

				err = p.unexpected(p.peek(0))
			}
		}

		return expr, err
	}

	return nil, nil
}

/*
assign parses a plain assignment.
*/
func (p *parser) assign() (Node, error) {
	nameToken := p.next()
	tok := p.next()

	val, err := p.expression()

	if err != nil {
		return nil, err
	}

	return &Assign{node{tok}, &Variable{node{nameToken}, nameToken.Val}, val}, nil
}

/*
multipleAssign parses an assignment with several targets.
*/
func (p *parser) multipleAssign() (Node, error) {
	res := &MultipleAssign{node: node{p.peek(0)}}

	for {
		var target Node

		if p.is(TokenCOLON) {
			tok := p.next()

			if !IsName(p.peek(0).ID) {
				return nil, p.unexpected(p.peek(0))
			}

			nameToken := p.next()
			target = &IterableUnpacking{node{tok}, &Variable{node{nameToken}, nameToken.Val}}

		} else {

			if !IsName(p.peek(0).ID) {
				return nil, p.unexpected(p.peek(0))
			}

			nameToken := p.next()
			target = &Variable{node{nameToken}, nameToken.Val}
		}

		res.Targets = append(res.Targets, target)

		if !p.is(TokenCOMMA) {
			break
		}

		p.next()
	}

	if _, err := p.consume(TokenASSIGN); err != nil {
		return nil, err
	}

	for {
		val, err := p.expression()

		if err != nil {
			return nil, err
		}

		res.Values = append(res.Values, val)

		if !p.is(TokenCOMMA) {
			break
		}

		p.next()
	}

	return res, nil
}

/*
blockStart consumes the tokens which introduce a block: a comma, a given
keyword and a newline.
*/
func (p *parser) blockStart(keyword LexTokenID) error {
	_, err := p.consume(TokenCOMMA)

	if err == nil {
		if _, err = p.consume(keyword); err == nil {
			_, err = p.consume(TokenNEWLINE)
		}
	}

	return err
}

/*
ifStatement parses a conditional statement.
*/
func (p *parser) ifStatement() (Node, error) {
	var err error

	res := &IfStatement{node: node{p.next()}}

	if res.Cond, err = p.expression(); err != nil {
		return nil, err
	}

	if err = p.blockStart(TokenTHEN); err != nil {
		return nil, err
	}

	if res.Block, err = p.indentedBlock(); err != nil {
		return nil, err
	}

	for !p.is(TokenENDIF) {

		if _, err = p.consume(TokenELSE); err != nil {
			return nil, err
		}

		if p.is(TokenCOMMA) {
			var cond Node
			var block *StatementList

			p.next()

			if _, err = p.consume(TokenIF); err != nil {
				return nil, err
			}

			if cond, err = p.expression(); err != nil {
				return nil, err
			}

			if err = p.blockStart(TokenTHEN); err != nil {
				return nil, err
			}

			if block, err = p.indentedBlock(); err != nil {
				return nil, err
			}

			res.ElifConds = append(res.ElifConds, cond)
			res.ElifBlocks = append(res.ElifBlocks, block)

			continue
		}

		if _, err = p.consume(TokenNEWLINE); err != nil {
			return nil, err
		}

		if res.ElseBlock, err = p.indentedBlock(); err != nil {
			return nil, err
		}

		break
	}

	_, err = p.consume(TokenENDIF)

	return res, err
}

/*
conditionLoop parses a while or an until loop.
*/
func (p *parser) conditionLoop() (Node, error) {
	tok := p.next()

	cond, err := p.expression()

	if err == nil {
		if err = p.blockStart(TokenLOOP); err == nil {
			var block *StatementList

			if block, err = p.indentedBlock(); err == nil {
				if _, err = p.consume(TokenENDLOOP); err == nil {

					if tok.ID == TokenUNTIL {
						return &UntilLoop{node{tok}, cond, block}, nil
					}

					return &WhileLoop{node{tok}, cond, block}, nil
				}
			}
		}
	}

	return nil, err
}

/*
forLoop parses a for loop.
*/
func (p *parser) forLoop() (Node, error) {
	var err error

	res := &ForLoop{node: node{p.next()}}

	if _, err = p.consume(TokenLPAREN); err != nil {
		return nil, err
	}

	for {
		var name string

		if name, err = p.consumeName(); err != nil {
			return nil, err
		}

		res.Params = append(res.Params, name)

		if !p.is(TokenCOMMA) {
			break
		}

		p.next()
	}

	if _, err = p.consume(TokenRPAREN); err == nil {
		if _, err = p.consume(TokenIN); err == nil {
			if res.Iterable, err = p.expression(); err == nil {
				if err = p.blockStart(TokenLOOP); err == nil {
					if res.Block, err = p.indentedBlock(); err == nil {
						_, err = p.consume(TokenENDLOOP)
					}
				}
			}
		}
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}

/*
functionDefinition parses the definition of a user function.
*/
func (p *parser) functionDefinition() (Node, error) {
	var err error

	res := &FunctionDefinition{node: node{p.next()}}

	if _, err = p.consume(TokenLPAREN); err != nil {
		return nil, err
	}

	if res.Name, err = p.consumeName(); err != nil {
		return nil, err
	}

	if _, err = p.consume(TokenRPAREN); err == nil {
		if _, err = p.consume(TokenASSIGN); err == nil {
			if _, err = p.consume(TokenLPAREN); err == nil {
				if err = p.functionParameters(res); err == nil {
					if _, err = p.consume(TokenRPAREN); err == nil {
						if err = p.blockStart(TokenDO); err == nil {
							if res.Body, err = p.indentedBlock(); err == nil {
								_, err = p.consume(TokenENDFUNCTION)
							}
						}
					}
				}
			}
		}
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}

/*
functionParameters parses the parameter declarations of a function. Plain
parameters come first, then an optional arbitrary argument list and then
modifiers and flags.
*/
func (p *parser) functionParameters(def *FunctionDefinition) error {
	const (
		stagePlain = iota
		stageVariadic
		stageNamed
	)

	stage := stagePlain

	for !p.is(TokenRPAREN) {
		t := p.peek(0)

		switch {

		case t.ID == TokenIDENTIFIER && stage == stagePlain:
			def.Params = append(def.Params, p.next().Val)

		case t.ID == TokenCOLON && stage == stagePlain:
			var err error

			p.next()

			if def.Variadic, err = p.consumeName(); err != nil {
				return err
			}

			stage = stageVariadic

		case t.ID == TokenTILDE:
			named, err := p.namedArgument()

			if err != nil {
				return err
			}

			if m, ok := named.(*Modifier); ok {
				def.Modifiers = append(def.Modifiers, m)
			} else {
				def.Flags = append(def.Flags, named.(*Flag))
			}

			stage = stageNamed

		default:
			return p.unexpected(t)
		}

		if p.is(TokenCOMMA) {
			p.next()
		}
	}

	return nil
}

/*
namedArgument parses a modifier (~name << value) or a flag (~name).
*/
func (p *parser) namedArgument() (Node, error) {
	tok := p.next()

	name, err := p.consumeName()

	if err != nil {
		return nil, err
	}

	if p.is(TokenASSIGN) {
		var val Node

		p.next()

		if val, err = p.expression(); err != nil {
			return nil, err
		}

		return &Modifier{node{tok}, name, val}, nil
	}

	return &Flag{node{tok}, name}, nil
}

/*
returnStatement parses a return statement.
*/
func (p *parser) returnStatement() (Node, error) {
	res := &Return{node: node{p.next()}}

	if isExpressionStart(p.peek(0).ID) {
		var err error

		if res.Expr, err = p.expression(); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Expressions
// ===========

/*
isExpressionStart checks if a token of the given ID can start an expression.
*/
func isExpressionStart(id LexTokenID) bool {
	switch id {
	case TokenNUMBER, TokenSTRING, TokenTRUE, TokenFALSE, TokenNONE,
		TokenLBRACK, TokenLPAREN, TokenCOLON, TokenPLUS, TokenMINUS:
		return true
	}

	return IsName(id)
}

/*
expression parses an expression which may be marked for unpacking.
*/
func (p *parser) expression() (Node, error) {

	if p.is(TokenCOLON) {
		tok := p.next()

		expr, err := p.comparison()

		if err != nil {
			return nil, err
		}

		return &IterableUnpacking{node{tok}, expr}, nil
	}

	return p.comparison()
}

/*
binaryLevel parses a left-associative chain of binary operations.
*/
func (p *parser) binaryLevel(ops []LexTokenID, operand func() (Node, error)) (Node, error) {
	left, err := operand()

	for err == nil && p.isOneOf(ops) {
		var right Node

		tok := p.next()

		if right, err = operand(); err == nil {
			left = &BinaryOperation{node{tok}, binaryOps[tok.ID], left, right}
		}
	}

	if err != nil {
		return nil, err
	}

	return left, nil
}

/*
comparison parses a comparison.
*/
func (p *parser) comparison() (Node, error) {
	return p.binaryLevel(comparisonOps, p.addition)
}

/*
addition parses an addition or subtraction.
*/
func (p *parser) addition() (Node, error) {
	return p.binaryLevel(additionOps, p.multiplication)
}

/*
multiplication parses a multiplication, division or modulo operation.
*/
func (p *parser) multiplication() (Node, error) {
	return p.binaryLevel(multiplicationOps, p.unary)
}

/*
unary parses a sign.
*/
func (p *parser) unary() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.is(TokenPLUS) || p.is(TokenMINUS) {
		tok := p.next()

		expr, err := p.unary()

		if err != nil {
			return nil, err
		}

		return &UnaryOperation{node{tok}, binaryOps[tok.ID], expr}, nil
	}

	return p.exponent()
}

/*
exponent parses a right-associative power operation.
*/
func (p *parser) exponent() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	base, err := p.postfix()

	if err == nil && p.is(TokenPOW) {
		var exp Node

		tok := p.next()

		if exp, err = p.exponent(); err == nil {
			return &BinaryOperation{node{tok}, NodePOW, base, exp}, nil
		}
	}

	if err != nil {
		return nil, err
	}

	return base, nil
}

/*
postfix parses attribute access and function calls.
*/
func (p *parser) postfix() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	expr, err := p.atom()

	for err == nil {

		if p.is(TokenDOT) {
			var attr string

			tok := p.next()

			if attr, err = p.consumeName(); err == nil {
				expr = &AttributeAccess{node{tok}, expr, attr}
			}

		} else if p.is(TokenLBRACK) {

			expr, err = p.call(expr)

		} else {

			break
		}
	}

	if err != nil {
		return nil, err
	}

	return expr, nil
}

/*
call parses the argument list of a function call.
*/
func (p *parser) call(callee Node) (Node, error) {
	res := &FunctionCall{node: node{p.next()}, Callee: callee}

	p.skipNewlines()

	for !p.is(TokenRBRACK) {

		if p.is(TokenTILDE) {
			named, err := p.namedArgument()

			if err != nil {
				return nil, err
			}

			if m, ok := named.(*Modifier); ok {
				res.Modifiers = append(res.Modifiers, m)
			} else {
				res.Flags = append(res.Flags, named.(*Flag))
			}

		} else {

			if len(res.Modifiers)+len(res.Flags) > 0 {

				// Positional arguments must come before modifiers and flags

				return nil, p.unexpected(p.peek(0))
			}

			arg, err := p.expression()

			if err != nil {
				return nil, err
			}

			res.Args = append(res.Args, arg)
		}

		p.skipNewlines()

		if p.is(TokenCOMMA) {
			p.next()
			p.skipNewlines()

		} else if !p.is(TokenRBRACK) && !p.is(TokenTILDE) {

			return nil, p.unexpected(p.peek(0))
		}
	}

	p.next()

	return res, nil
}

/*
atom parses literals, names, list literals and parenthesized expressions.
*/
func (p *parser) atom() (Node, error) {
	var err error
	var res Node

	t := p.peek(0)

	switch {

	case t.ID == TokenNUMBER:
		var d decimal.Decimal

		p.next()

		if d, err = decimal.NewFromString(t.Val); err != nil {
			return nil, p.newParserError(util.ErrSyntaxError,
				fmt.Sprintf("Invalid number %v", t.Val), t)
		}

		res = &NumberLiteral{node{t}, d}

	case t.ID == TokenSTRING:
		res = &StringLiteral{node{p.next()}, t.Val}

	case t.ID == TokenTRUE || t.ID == TokenFALSE:
		res = &BooleanLiteral{node{p.next()}, t.ID == TokenTRUE}

	case t.ID == TokenNONE:
		res = &NoneLiteral{node{p.next()}}

	case IsName(t.ID):
		res = &Variable{node{p.next()}, t.Val}

	case t.ID == TokenLBRACK:
		res, err = p.listLiteral()

	case t.ID == TokenLPAREN:
		p.next()

		if res, err = p.expression(); err == nil {
			_, err = p.consume(TokenRPAREN)
		}

	case t.ID == TokenCOLON:
		var expr Node

		p.next()

		if expr, err = p.postfix(); err == nil {
			res = &IterableUnpacking{node{t}, expr}
		}

	case t.ID == TokenPLUS || t.ID == TokenMINUS:
		var expr Node

		p.next()

		if expr, err = p.postfix(); err == nil {
			res = &UnaryOperation{node{t}, binaryOps[t.ID], expr}
		}

	default:
		err = p.unexpected(t)
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}

/*
listLiteral parses a list literal.
*/
func (p *parser) listLiteral() (Node, error) {
	res := &ListLiteral{node: node{p.next()}}

	p.skipNewlines()

	for !p.is(TokenRBRACK) {
		elem, err := p.expression()

		if err != nil {
			return nil, err
		}

		res.Elements = append(res.Elements, elem)

		p.skipNewlines()

		if !p.is(TokenCOMMA) {
			break
		}

		p.next()
		p.skipNewlines()
	}

	if _, err := p.consume(TokenRBRACK); err != nil {
		return nil, err
	}

	return res, nil
}
