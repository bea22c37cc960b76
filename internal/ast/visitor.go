package ast

// Visitor is the double-dispatch interface every Node.Accept calls into.
// The teacher's own ast package calls v.VisitXxx throughout but never
// declares this interface anywhere in the pack (checked: grepping the
// whole corpus for "type Visitor interface" finds nothing) — the same
// gap as internal/pipeline.Pipeline/Processor. Supplied here so the
// package actually compiles; the method set is exactly the set of
// VisitXxx calls already made from the Accept methods below and in
// ast_types.go / ast_list_comp.go.
type Visitor interface {
	VisitProgram(*Program)
	VisitDirectiveStatement(*DirectiveStatement)
	VisitConstantDeclaration(*ConstantDeclaration)
	VisitPackageDeclaration(*PackageDeclaration)
	VisitImportStatement(*ImportStatement)
	VisitIdentifier(*Identifier)
	VisitIntegerLiteral(*IntegerLiteral)
	VisitBooleanLiteral(*BooleanLiteral)
	VisitNilLiteral(*NilLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitBigIntLiteral(*BigIntLiteral)
	VisitRationalLiteral(*RationalLiteral)
	VisitTupleLiteral(*TupleLiteral)
	VisitListLiteral(*ListLiteral)
	VisitRecordLiteral(*RecordLiteral)
	VisitMapLiteral(*MapLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitFormatStringLiteral(*FormatStringLiteral)
	VisitInterpolatedString(*InterpolatedString)
	VisitCharLiteral(*CharLiteral)
	VisitBytesLiteral(*BytesLiteral)
	VisitBitsLiteral(*BitsLiteral)

	VisitIndexExpression(*IndexExpression)
	VisitMemberExpression(*MemberExpression)
	VisitAnnotatedExpression(*AnnotatedExpression)
	VisitExpressionStatement(*ExpressionStatement)
	VisitBlockStatement(*BlockStatement)
	VisitFunctionStatement(*FunctionStatement)
	VisitFunctionLiteral(*FunctionLiteral)
	VisitIfExpression(*IfExpression)
	VisitMatchExpression(*MatchExpression)
	VisitForExpression(*ForExpression)
	VisitBreakStatement(*BreakStatement)
	VisitContinueStatement(*ContinueStatement)
	VisitReturnStatement(*ReturnStatement)
	VisitPrefixExpression(*PrefixExpression)
	VisitInfixExpression(*InfixExpression)
	VisitOperatorAsFunction(*OperatorAsFunction)
	VisitAssignExpression(*AssignExpression)
	VisitPatternAssignExpression(*PatternAssignExpression)
	VisitCallExpression(*CallExpression)
	VisitSpreadExpression(*SpreadExpression)
	VisitRangeExpression(*RangeExpression)
	VisitTypeApplicationExpression(*TypeApplicationExpression)
	VisitPostfixExpression(*PostfixExpression)

	VisitListComprehension(*ListComprehension)

	VisitTypeDeclarationStatement(*TypeDeclarationStatement)
	VisitDataConstructor(*DataConstructor)
	VisitTraitDeclaration(*TraitDeclaration)
	VisitInstanceDeclaration(*InstanceDeclaration)
	VisitNamedType(*NamedType)
	VisitFunctionType(*FunctionType)
	VisitTupleType(*TupleType)
	VisitRecordType(*RecordType)
	VisitUnionType(*UnionType)
	VisitForallType(*ForallType)

	VisitIdentifierPattern(*IdentifierPattern)
	VisitLiteralPattern(*LiteralPattern)
	VisitWildcardPattern(*WildcardPattern)
	VisitTuplePattern(*TuplePattern)
	VisitListPattern(*ListPattern)
	VisitRecordPattern(*RecordPattern)
	VisitConstructorPattern(*ConstructorPattern)
	VisitTypePattern(*TypePattern)
	VisitStringPattern(*StringPattern)
	VisitSpreadPattern(*SpreadPattern)
	VisitPinPattern(*PinPattern)
}
