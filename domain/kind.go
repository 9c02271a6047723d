// Package domain holds the pure rules and data model shared by every other
// package in the index: the closed set of document kinds, edge types and
// layers, and the predicates that route a document and flag layer
// violations. Nothing in this package touches the filesystem or performs
// I/O of any kind.
package domain

import "strings"

// Kind is one of the 16 closed document categories.
type Kind string

const (
	KindEntity         Kind = "entity"
	KindEvent          Kind = "event"
	KindBusinessRule   Kind = "business-rule"
	KindBusinessPolicy Kind = "business-policy"
	KindCrossPolicy    Kind = "cross-policy"
	KindCommand        Kind = "command"
	KindQuery          Kind = "query"
	KindProcess        Kind = "process"
	KindUseCase        Kind = "use-case"
	KindUIView         Kind = "ui-view"
	KindUIComponent    Kind = "ui-component"
	KindRequirement    Kind = "requirement"
	KindObjective      Kind = "objective"
	KindPRD            Kind = "prd"
	KindADR            Kind = "adr"
	KindGlossary       Kind = "glossary"
)

// SectionField names one canonical indexed-field key and the bilingual
// heading synonyms (already lower-case) that populate it.
type SectionField struct {
	Key      string
	Synonyms []string
}

// KindInfo describes everything the rest of the system needs to know about
// a kind: its node-ID prefix, where its source files are expected to live,
// which layer it belongs to, and which section headings feed its indexed
// fields and its embeddable set.
type KindInfo struct {
	Kind               Kind
	Prefix             string
	ExpectedPathPrefix string
	Layer              Layer
	Fields             []SectionField
	// Embeddable is false for kinds (e.g. event) whose sections are indexed
	// but never chunked/embedded.
	Embeddable bool

	// synonymToKey maps a lower-cased heading synonym to its canonical
	// field key, built once at registration time.
	synonymToKey map[string]string
}

var registry = map[Kind]KindInfo{}

func register(k Kind, prefix, pathPrefix string, layer Layer, fields []SectionField, embeddable bool) {
	synonymToKey := make(map[string]string)
	for _, f := range fields {
		for _, syn := range f.Synonyms {
			synonymToKey[strings.ToLower(syn)] = f.Key
		}
	}
	registry[k] = KindInfo{
		Kind:               k,
		Prefix:             prefix,
		ExpectedPathPrefix: pathPrefix,
		Layer:              layer,
		Fields:             fields,
		Embeddable:         embeddable,
		synonymToKey:       synonymToKey,
	}
}

func field(key string, synonyms ...string) SectionField {
	return SectionField{Key: key, Synonyms: synonyms}
}

func init() {
	register(KindEntity, "ENT", "01-domain/entities/", LayerDomain, []SectionField{
		field("description", "description", "descripción"),
		field("attributes", "attributes", "atributos"),
		field("relations", "relations", "relationships", "relaciones"),
		field("invariants", "invariants", "constraints", "invariantes", "restricciones"),
		field("lifecycle", "lifecycle", "state machine", "ciclo de vida", "máquina de estados"),
		field("lifecycle_events", "lifecycle events", "eventos de ciclo de vida"),
	}, true)

	register(KindEvent, "EVT", "01-domain/events/", LayerDomain, []SectionField{
		field("description", "description", "descripción"),
		field("payload", "payload", "carga útil"),
		field("producer", "producer", "productor"),
		field("consumers", "consumers", "consumidores"),
	}, false)

	register(KindBusinessRule, "BR", "01-domain/business-rules/", LayerDomain, []SectionField{
		field("declaration", "declaration", "declaración"),
		field("when_applies", "when applies", "cuándo aplica"),
		field("why_it_exists", "why it exists", "por qué existe"),
		field("violation", "violation", "violación"),
		field("examples", "examples", "ejemplos"),
	}, true)

	register(KindBusinessPolicy, "BP", "01-domain/business-policies/", LayerDomain, []SectionField{
		field("declaration", "declaration", "declaración"),
		field("when_applies", "when applies", "cuándo aplica"),
		field("parameters", "parameters", "parámetros"),
		field("violation", "violation", "violación"),
	}, true)

	register(KindCrossPolicy, "XP", "01-domain/cross-policies/", LayerDomain, []SectionField{
		field("purpose", "purpose", "propósito"),
		field("declaration", "declaration", "declaración"),
		field("ears_formalization", "ears formalization", "formalización ears"),
		field("standard_behavior", "standard behavior", "comportamiento estándar"),
	}, true)

	register(KindCommand, "CMD", "02-behavior/commands/", LayerBehavior, []SectionField{
		field("purpose", "purpose", "propósito"),
		field("input", "input", "entrada"),
		field("preconditions", "preconditions", "precondiciones"),
		field("postconditions", "postconditions", "postcondiciones"),
		field("possible_errors", "possible errors", "errores posibles"),
	}, true)

	register(KindQuery, "QRY", "02-behavior/queries/", LayerBehavior, []SectionField{
		field("purpose", "purpose", "propósito"),
		field("input", "input", "entrada"),
		field("output", "output", "salida"),
		field("possible_errors", "possible errors", "errores posibles"),
	}, true)

	register(KindProcess, "PROC", "02-behavior/processes/", LayerBehavior, []SectionField{
		field("participants", "participants", "participantes"),
		field("steps", "steps", "pasos"),
		field("diagram", "diagram", "diagrama"),
	}, true)

	register(KindUseCase, "UC", "02-behavior/use-cases/", LayerBehavior, []SectionField{
		field("description", "description", "descripción"),
		field("actors", "actors", "actores"),
		field("preconditions", "preconditions", "precondiciones"),
		field("main_flow", "main flow", "flujo principal"),
		field("alternative_flows", "alternative flows", "flujos alternativos"),
		field("exceptions", "exceptions", "excepciones"),
		field("postconditions", "postconditions", "postcondiciones"),
		field("applied_rules", "applied rules", "reglas aplicadas"),
		field("commands_executed", "commands executed", "comandos ejecutados"),
	}, true)

	register(KindUIView, "UI", "03-experience/views/", LayerExperience, []SectionField{
		field("description", "description", "descripción"),
		field("layout", "layout", "diseño"),
		field("components", "components", "componentes"),
		field("states", "states", "estados"),
		field("behavior", "behavior", "comportamiento"),
	}, true)

	register(KindUIComponent, "UIC", "03-experience/components/", LayerExperience, []SectionField{
		field("description", "description", "descripción"),
		field("entities", "entities", "entidades"),
		field("use_cases", "use cases", "casos de uso"),
	}, true)

	register(KindRequirement, "REQ", "00-requirements/requirements/", LayerRequirements, []SectionField{
		field("description", "description", "descripción"),
		field("acceptance_criteria", "acceptance criteria", "criterios de aceptación"),
		field("traceability", "traceability", "trazabilidad"),
	}, true)

	register(KindObjective, "OBJ", "00-requirements/objectives/", LayerRequirements, []SectionField{
		field("actor", "actor"),
		field("objective", "objective", "objetivo"),
		field("success_criteria", "success criteria", "criterios de éxito"),
	}, true)

	register(KindPRD, "PRD", "00-requirements/prds/", LayerRequirements, []SectionField{
		field("problem_opportunity", "problem/opportunity", "problema/oportunidad"),
		field("scope", "scope", "alcance"),
		field("users", "users", "usuarios"),
		field("success_metrics", "success metrics", "métricas de éxito"),
		field("dependencies", "dependencies", "dependencias"),
	}, true)

	register(KindADR, "ADR", "00-requirements/adrs/", LayerRequirements, []SectionField{
		field("context", "context", "contexto"),
		field("decision", "decision", "decisión"),
		field("consequences", "consequences", "consecuencias"),
	}, true)

	register(KindGlossary, "GLOSS", "01-domain/glossary/", LayerDomain, []SectionField{
		field("definition", "definition", "definición"),
		field("context", "context", "contexto"),
		field("related_terms", "related terms", "términos relacionados"),
	}, true)
}

// Kinds returns every registered kind, stably ordered for deterministic
// iteration (e.g. manifest stats, CLI listings).
func Kinds() []Kind {
	return []Kind{
		KindEntity, KindEvent, KindBusinessRule, KindBusinessPolicy, KindCrossPolicy,
		KindCommand, KindQuery, KindProcess, KindUseCase, KindUIView, KindUIComponent,
		KindRequirement, KindObjective, KindPRD, KindADR, KindGlossary,
	}
}

// LookupKind parses a raw front-matter "kind" value into a known Kind.
// Matching is case-insensitive and trims surrounding whitespace. Returns
// false if unrecognized.
func LookupKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := registry[k]; ok {
		return k, true
	}
	return "", false
}

// Info returns the fixed metadata for a kind. Panics if k is not
// registered; callers must only pass kinds obtained from LookupKind or
// Kinds.
func Info(k Kind) KindInfo {
	info, ok := registry[k]
	if !ok {
		panic("domain: unknown kind " + string(k))
	}
	return info
}

// Prefix returns the node-ID prefix for a kind.
func Prefix(k Kind) string {
	return Info(k).Prefix
}

// FieldForHeading resolves a lower-cased section heading to the kind's
// canonical indexed-field key. Returns ("", false) for headings the kind
// does not recognize.
func FieldForHeading(k Kind, headingLower string) (string, bool) {
	key, ok := Info(k).synonymToKey[headingLower]
	return key, ok
}

// EmbeddableSections returns the lower-cased heading set eligible for
// embedding for a kind. Kinds with Embeddable=false return an empty,
// non-nil map (e.g. event).
func EmbeddableSections(k Kind) map[string]bool {
	info := Info(k)
	set := make(map[string]bool, len(info.synonymToKey))
	if info.Embeddable {
		for syn := range info.synonymToKey {
			set[syn] = true
		}
	}
	return set
}

// IndexedSections returns the lower-cased heading set whose body text is
// captured as an indexed field for a kind.
func IndexedSections(k Kind) map[string]bool {
	info := Info(k)
	set := make(map[string]bool, len(info.synonymToKey))
	for syn := range info.synonymToKey {
		set[syn] = true
	}
	return set
}

// prefixLayer is built once from the kind registry: it is "identical to the
// layer assignments of §3" because it is derived directly from them.
var prefixLayer map[string]Layer

// LayerForPrefix resolves a node-ID prefix (e.g. "UC", extracted from a
// wiki-link target such as "UC-042") to the layer of the kind that owns
// that prefix. Returns (layer, false) for an unrecognized prefix.
func LayerForPrefix(prefix string) (Layer, bool) {
	if prefixLayer == nil {
		prefixLayer = make(map[string]Layer, len(registry))
		for _, info := range registry {
			prefixLayer[info.Prefix] = info.Layer
		}
	}
	l, ok := prefixLayer[prefix]
	return l, ok
}

// KindForPrefix resolves a node-ID prefix to its owning kind. Used by the
// query engine to resolve an embedding's document ID to a node via every
// known kind prefix until one of them matches an existing node.
func KindForPrefix(prefix string) (Kind, bool) {
	for _, info := range registry {
		if info.Prefix == prefix {
			return info.Kind, true
		}
	}
	return "", false
}
