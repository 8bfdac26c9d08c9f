// Package roster loads subscriber rosters from YAML so deployments can
// bootstrap hub membership from a checked-in file instead of code.
//
// A roster file looks like:
//
//	subscribers:
//	  - name: Ana
//	    email: ana@example.com
//	    phone: "+15551111111"
//	    channels: [email, push]
//	  - name: Luis
//	    email: luis@example.com
//	    channels: [sms]
//
// Entries are validated on parse; unknown channel tags are kept as-is
// and handled at delivery time by the subscriber's skip semantics.
//
//	r, err := roster.Load("roster.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	subs, err := r.Build(registry)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, sub := range subs {
//		sub.Subscribe(h)
//	}
package roster
