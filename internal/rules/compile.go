package rules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/window"
)

// GlobalSubject is the subject of rules that apply to every window.
const GlobalSubject = "global"

// Rule is a compiled rule. A nil Subject applies to every window class.
type Rule struct {
	Subject    *string
	Conditions []Condition
	Actions    []Action
}

// Matches reports whether the rule applies to w.
func (r *Rule) Matches(w *window.Window) bool {
	if r.Subject != nil && *r.Subject != w.Class {
		return false
	}
	for _, c := range r.Conditions {
		if !c.Match(w) {
			return false
		}
	}
	return true
}

// Compile compiles rule declarations. Each source holds (subject, rule
// list) pairs; rules are returned in source order, then declaration
// order. Keys of a rule are processed in sorted order.
func Compile(reg *Registry, sources ...[]config.Pair) ([]Rule, error) {
	var out []Rule
	for _, pairs := range sources {
		for _, p := range pairs {
			compiled, err := compileSubject(reg, p)
			if err != nil {
				return nil, err
			}
			out = append(out, compiled...)
		}
	}
	return out, nil
}

func compileSubject(reg *Registry, p config.Pair) ([]Rule, error) {
	var subject *string
	if p.Key != GlobalSubject {
		s := p.Key
		subject = &s
	}

	list, ok := p.Value.([]any)
	if !ok {
		return nil, &CompileError{Subject: p.Key, Err: fmt.Errorf("%w: expected a list of rules, got %T", ErrMalformed, p.Value)}
	}

	out := make([]Rule, 0, len(list))
	for i, item := range list {
		decl, ok := item.(map[string]any)
		if !ok {
			return nil, &CompileError{Subject: p.Key, Index: i, Err: fmt.Errorf("%w: expected a mapping, got %T", ErrMalformed, item)}
		}
		rule, err := compileRule(reg, decl)
		if err != nil {
			err.Subject, err.Index = p.Key, i
			return nil, err
		}
		rule.Subject = subject
		out = append(out, rule)
	}
	return out, nil
}

func compileRule(reg *Registry, decl map[string]any) (Rule, *CompileError) {
	keys := make([]string, 0, len(decl))
	for k := range decl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rule Rule
	for _, k := range keys {
		args := argsOf(decl[k])
		if kind, ok := reg.conditions[k]; ok {
			c, err := kind(args)
			if err != nil {
				return rule, &CompileError{Key: k, Err: badArguments(err)}
			}
			rule.Conditions = append(rule.Conditions, c)
			continue
		}
		if kind, ok := reg.actions[k]; ok {
			a, err := kind(args)
			if err != nil {
				return rule, &CompileError{Key: k, Err: badArguments(err)}
			}
			rule.Actions = append(rule.Actions, a)
			continue
		}
		return rule, &CompileError{Key: k, Err: ErrUnknownKey}
	}

	if len(rule.Actions) == 0 {
		return rule, &CompileError{Err: ErrEmptyActions}
	}
	return rule, nil
}

func badArguments(err error) error {
	if errors.Is(err, ErrBadArguments) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBadArguments, err)
}
