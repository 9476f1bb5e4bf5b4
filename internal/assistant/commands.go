package assistant

import (
	"context"
	"fmt"
)

// commands is the fixed command table, in match order.
func (a *Assistant) commands() []Command {
	return []Command{
		{Trigger: TriggerHello, Run: a.greet},
		{Trigger: TriggerTime, Run: a.tellTime},
		{Trigger: TriggerTerminal, Run: a.openTerminal},
		{Trigger: TriggerSystem, Run: a.checkSystem},
		{Trigger: TriggerRecord, Run: a.RecordMessage},
		{Trigger: TriggerHelp, Run: a.help},
		{Trigger: TriggerThanks, Run: a.thanks},
		{Trigger: TriggerBye, Run: a.goodbye},
	}
}

func (a *Assistant) greet(ctx context.Context) error {
	var greeting string
	switch h := a.now().Hour(); {
	case h < 12:
		greeting = sayGoodMorning
	case h < 18:
		greeting = sayGoodAfternoon
	default:
		greeting = sayGoodEvening
	}
	a.say(ctx, fmt.Sprintf("%s %s! איך אני יכול לעזור?", greeting, a.opts.UserName))
	return nil
}

func (a *Assistant) tellTime(ctx context.Context) error {
	a.say(ctx, timeAnnouncement(a.now().Format("15:04")))
	return nil
}

func (a *Assistant) openTerminal(ctx context.Context) error {
	a.say(ctx, sayOpeningTerminal)
	if err := a.deps.Host.OpenTerminal(ctx); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	return nil
}

func (a *Assistant) checkSystem(ctx context.Context) error {
	a.say(ctx, sayCheckingSystem)
	n, err := a.deps.Host.CPUCount(ctx)
	if err != nil {
		return fmt.Errorf("cpu count: %w", err)
	}
	a.say(ctx, systemReport(n))
	return nil
}

// RecordMessage prompts, beeps and listens once with the longer record
// timeout. A recognized utterance is appended to the message log.
func (a *Assistant) RecordMessage(ctx context.Context) error {
	a.say(ctx, sayRecordPrompt)
	if err := a.deps.Notifier.Beep(ctx); err != nil {
		a.logger.Warn("beep failed", "err", err)
	}

	text, ok := a.listen(ctx, a.opts.RecordTimeout)
	if !ok {
		a.say(ctx, sayRecordFailed)
		return nil
	}

	entry, err := a.deps.Messages.Append(text)
	if err != nil {
		a.say(ctx, sayRecordFailed)
		return fmt.Errorf("save message: %w", err)
	}
	a.logger.Info("message saved", "time", entry.Time)
	a.say(ctx, sayRecordSaved)
	return nil
}

func (a *Assistant) help(ctx context.Context) error {
	a.say(ctx, helpText())
	return nil
}

func (a *Assistant) thanks(ctx context.Context) error {
	a.say(ctx, sayThanks)
	return nil
}

func (a *Assistant) goodbye(ctx context.Context) error {
	a.say(ctx, farewell(a.opts.UserName))
	if a.session != nil {
		a.session.active = false
	}
	return nil
}
