package decompose

import "context"

type fakeCompleter struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
	calls      int
}

func (f *fakeCompleter) Complete(
	_ context.Context, system, prompt string, _ float32, _ int,
) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
