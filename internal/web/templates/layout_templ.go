// Code generated by templ - DO NOT EDIT.

// templ: version: v0.2.793
package templates

//lint:file-ignore SA4006 This context is only used if a nested component is present.

import "github.com/a-h/templ"
import templruntime "github.com/a-h/templ/runtime"

// Layout is the page shell; the page body is passed as children.
func Layout(title string) templ.Component {
	return templruntime.GeneratedTemplate(func(templ_7745c5c3_Input templruntime.GeneratedComponentInput) (templ_7745c5c3_Err error) {
		templ_7745c5c3_W, ctx := templ_7745c5c3_Input.Writer, templ_7745c5c3_Input.Context
		if templ_7745c5c3_CtxErr := ctx.Err(); templ_7745c5c3_CtxErr != nil {
			return templ_7745c5c3_CtxErr
		}
		templ_7745c5c3_Buffer, templ_7745c5c3_IsBuffer := templruntime.GetBuffer(templ_7745c5c3_W)
		if !templ_7745c5c3_IsBuffer {
			defer func() {
				templ_7745c5c3_BufErr := templruntime.ReleaseBuffer(templ_7745c5c3_Buffer)
				if templ_7745c5c3_Err == nil {
					templ_7745c5c3_Err = templ_7745c5c3_BufErr
				}
			}()
		}
		ctx = templ.InitializeContext(ctx)
		templ_7745c5c3_Var1 := templ.GetChildren(ctx)
		if templ_7745c5c3_Var1 == nil {
			templ_7745c5c3_Var1 = templ.NopComponent
		}
		ctx = templ.ClearChildren(ctx)
		_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>")
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		var templ_7745c5c3_Var2 string
		templ_7745c5c3_Var2, templ_7745c5c3_Err = templ.JoinStringErrs(title)
		if templ_7745c5c3_Err != nil {
			return templ.Error{Err: templ_7745c5c3_Err, FileName: `layout.templ`, Line: 10, Col: 17}
		}
		_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString(templ.EscapeString(templ_7745c5c3_Var2))
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("</title><style>\n\t\t\t\tbody { margin: 0; font-family: system-ui, sans-serif; background: #fff7fa; color: #222; }\n\t\t\t\t.layout { display: flex; min-height: 100vh; }\n\t\t\t\t.sidebar { width: 320px; background: #FFDEE9; padding: 20px; box-sizing: border-box; }\n\t\t\t\t.main { flex: 1; padding: 24px 40px; }\n\t\t\t\tlabel { display: block; margin: 12px 0 4px; font-weight: 600; }\n\t\t\t\tinput[type=text], input[type=search] { width: 100%; padding: 8px; border: 1px solid #ccc; border-radius: 10px; box-sizing: border-box; }\n\t\t\t\tinput[type=file] { width: 100%; }\n\t\t\t\tbutton { background: #ff4b4b; color: #fff; font-size: 18px; border: 0; border-radius: 10px; padding: 10px 16px; cursor: pointer; }\n\t\t\t\tbutton.small { font-size: 14px; padding: 6px 10px; }\n\t\t\t\t.alert { border-radius: 10px; padding: 12px 16px; margin: 12px 0; }\n\t\t\t\t.alert-warning { background: #fff3cd; border: 1px solid #ffe08a; }\n\t\t\t\t.alert-error { background: #fde2e1; border: 1px solid #f5a3a0; }\n\t\t\t\t.alert small { display: block; color: #555; margin-top: 4px; }\n\t\t\t\t.toast { position: fixed; top: 16px; right: 16px; background: #1f9d55; color: #fff; padding: 12px 18px; border-radius: 10px; animation: fade 5s forwards; }\n\t\t\t\t@keyframes fade { 0%, 80% { opacity: 1; } 100% { opacity: 0; visibility: hidden; } }\n\t\t\t\t.record { border-bottom: 1px solid #f1c5d3; padding: 12px 0; }\n\t\t\t\t.record-head { display: flex; justify-content: space-between; align-items: center; gap: 12px; }\n\t\t\t\t.record figure { margin: 8px 0 0; }\n\t\t\t\t.record img { max-width: 100%; border-radius: 10px; }\n\t\t\t\t.record figcaption { font-size: 14px; color: #666; }\n\t\t\t\ttable { border-collapse: collapse; width: 100%; margin-top: 8px; }\n\t\t\t\tth, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #eee; }\n\t\t\t\t.muted { color: #777; }\n\t\t\t</style></head><body>")
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		templ_7745c5c3_Err = templ_7745c5c3_Var1.Render(ctx, templ_7745c5c3_Buffer)
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("</body></html>")
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		return templ_7745c5c3_Err
	})
}

var _ = templruntime.GeneratedTemplate
