// Package control provides the pilot-side collaborators that write control
// channels into the input registry before each external step.
//
//   - [PID]: scalar Proportional-Integral-Derivative loop
//   - [Autopilot]: altitude hold on the collective, attitude hold on the
//     cyclic and pedals
//   - [Manual]: stick positions nudged interactively by the live view
//
// # Usage
//
//	ap := control.NewAutopilot(reg, control.AutopilotSettings{AltitudeHold: true, Target: 100, Trim: 0.45})
//	for ... {
//		if err := ap.Apply(craft.State(), craft.Time()); err != nil {
//			return err
//		}
//		craft.Advance(dt, substeps)
//	}
//
// [PID] implements live tuning through GetParams and SetParam.
package control
